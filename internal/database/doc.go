// Package database provides the data access layer for the library service.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup, driver selection, migrations
//	├── errors.go        # Driver-independent constraint error detection
//	├── books/           # Book Store: CRUD, paging, quantity updates
//	├── borrowers/       # Borrower Store: CRUD, paging, soft delete
//	├── borrowings/      # Borrowing records, unit of work, joined queries
//	└── audit/           # Audit event persistence
//
// # Drivers
//
// SQLite (default) and PostgreSQL are both supported through gorm dialects:
//
//	db, err := database.NewDatabase(config.Database{Driver: config.DatabaseDriverSQLite, Path: "./library.db"})
//	db, err := database.NewDatabase(config.Database{Driver: config.DatabaseDriverPostgres, DSN: dsn})
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type over the shared *gorm.DB:
//
//	booksRepo := books.NewRepository(db.DB)
//	borrowingsRepo := borrowings.NewRepository(db.DB)
//
// Repositories translate persistence failures into apperr kinds at their
// boundary: gorm.ErrRecordNotFound becomes apperr.ErrNotFound, and unique,
// foreign key and check failures become apperr.ErrConstraintViolation.
//
// # Adding a New Domain
//
//  1. Create a new sub-package: internal/database/<domain>/
//  2. Define a Repository struct with a *gorm.DB field
//  3. Add NewRepository(db *gorm.DB) constructor
//  4. Implement the required interface
//  5. Add a compile-time check to internal/interfaces/checks.go
package database
