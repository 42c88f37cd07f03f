package domain

import "errors"

// ErrMalformedDocument is an error thrown when a tagpack document cannot be parsed
var ErrMalformedDocument = errors.New("malformed document")

// ErrUnsupportedSchemaVersion is an error thrown when a tagpack declares a schema version outside the supported range
var ErrUnsupportedSchemaVersion = errors.New("unsupported schema version")

// ErrMalformedTaxonomy is an error thrown when a taxonomy definition is invalid
var ErrMalformedTaxonomy = errors.New("malformed taxonomy")

// ErrConflictingSchema is an error thrown when a tagpack's taxonomy version does not match the registry snapshot
var ErrConflictingSchema = errors.New("conflicting taxonomy schema")

// ErrStaleVersion is an error thrown when a tagpack version older than the ingested one is submitted
var ErrStaleVersion = errors.New("stale tagpack version")

// ErrStorageUnavailable is an error thrown when the storage layer fails; retryable by the caller
var ErrStorageUnavailable = errors.New("storage unavailable")

// ErrPackNotFound is an error thrown when a tagpack is not found
var ErrPackNotFound = errors.New("tagpack not found")

// ErrIdentifierNotFound is an error thrown when an identifier has no harmonized tags
var ErrIdentifierNotFound = errors.New("identifier not found")

// ErrAlreadyExists is an error thrown when entity already exists
var ErrAlreadyExists = errors.New("already exists")
