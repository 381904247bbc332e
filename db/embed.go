// Package db embeds the SQL schema applied idempotently on startup.
package db

import _ "embed"

// Schema contains the DDL for all Ristora tables.
//
//go:embed migrations/001_schema.sql
var Schema string
