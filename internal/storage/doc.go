package storage

// Package storage provides the two interchangeable SQLite backends
// (file-backed and in-memory with snapshot persistence), idempotent
// schema setup, and the typed repositories for customers, payments,
// expenses, and monthly reports.
