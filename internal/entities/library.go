package entities

import (
	"time"

	"gorm.io/gorm"
)

type BorrowingStatus string

const (
	BorrowingStatusBorrowed BorrowingStatus = "borrowed"
	BorrowingStatusReturned BorrowingStatus = "returned" // returned on or before the due date
	BorrowingStatusOverdue  BorrowingStatus = "overdue"  // returned after the due date
)

// IsTerminal reports whether a borrowing in this status can no longer change.
func (s BorrowingStatus) IsTerminal() bool {
	return s == BorrowingStatusReturned || s == BorrowingStatusOverdue
}

type Book struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	Title             string    `gorm:"size:255;not null" json:"title"`
	Author            string    `gorm:"size:255" json:"author"`
	ISBN              string    `gorm:"uniqueIndex;size:13;not null" json:"isbn"`
	AvailableQuantity int       `gorm:"not null;default:0;check:available_quantity >= 0" json:"availableQuantity"`
	ShelfLocation     string    `gorm:"size:255" json:"shelfLocation"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

type Borrower struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"size:100;not null" json:"name"`
	Email     string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deletedAt,omitempty"`
}

// Borrowing is a single loan of a book to a borrower.
//
// Book and Borrower exist only so the schema carries foreign keys; reads go
// through the explicit joins in database/borrowings and never preload them.
type Borrowing struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	BorrowerID uint            `gorm:"index;not null" json:"borrowerId"`
	BookID     uint            `gorm:"index;not null" json:"bookId"`
	Status     BorrowingStatus `gorm:"size:20;not null;default:'borrowed';index" json:"status"`
	BorrowDate time.Time       `gorm:"not null;index" json:"borrowDate"`
	DueDate    time.Time       `gorm:"not null;index" json:"dueDate"`
	ReturnDate *time.Time      `json:"returnDate"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`

	Book     *Book     `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE" json:"-"`
	Borrower *Borrower `gorm:"foreignKey:BorrowerID;constraint:OnDelete:CASCADE" json:"-"`
}

// ActiveBorrowing is an open loan joined with the attributes of its book.
type ActiveBorrowing struct {
	BorrowingID   uint      `json:"borrowingId"`
	BookID        uint      `json:"bookId"`
	BorrowDate    time.Time `json:"borrowDate"`
	DueDate       time.Time `json:"dueDate"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	ISBN          string    `json:"isbn"`
	ShelfLocation string    `json:"shelfLocation"`
}

// OverdueBorrowing is a loan past its due date joined with book and borrower summaries.
type OverdueBorrowing struct {
	ID            uint            `json:"id"`
	BookID        uint            `json:"bookId"`
	BorrowerID    uint            `json:"borrowerId"`
	Status        BorrowingStatus `json:"status"`
	BorrowDate    time.Time       `json:"borrowDate"`
	DueDate       time.Time       `json:"dueDate"`
	ReturnDate    *time.Time      `json:"returnDate"`
	Title         string          `json:"title"`
	Author        string          `json:"author"`
	ISBN          string          `json:"isbn"`
	ShelfLocation string          `json:"shelfLocation"`
	BorrowerName  string          `json:"borrowerName"`
	BorrowerEmail string          `json:"borrowerEmail"`
}

// ReportRow is one line of the borrowings report.
type ReportRow struct {
	BorrowerName  string
	BorrowerEmail string
	BookTitle     string
	BorrowDate    time.Time
	ReturnDate    *time.Time
}
