// Package models defines the core data structures for principals,
// academic records, and directory users.
package models

// Principal is a ledger address string uniquely identifying a wallet.
type Principal string

// String returns the raw address form of the principal.
func (p Principal) String() string { return string(p) }

// TxPending marks a record whose transaction has been broadcast but
// not yet observed as confirmed.
const TxPending = "pending"

// AcademicRecord represents a single course result owned by the
// principal whose address matches the record's subject.
type AcademicRecord struct {
	// ID is the unique identifier for the record.
	ID string `json:"id"`
	// Course is the course title.
	Course string `json:"course"`
	// Grade is the result awarded for the course.
	Grade string `json:"grade"`
	// Year is the year the course was completed.
	Year int `json:"year"`
	// Institution is the awarding institution.
	Institution string `json:"institution"`
	// Verified reports whether the record's transaction has been
	// confirmed on the ledger. It transitions false -> true only.
	Verified bool `json:"verified"`
	// TransactionID is the ledger transaction id, or TxPending while
	// the broadcast awaits confirmation.
	TransactionID string `json:"transactionId"`
}

// Role identifies the kind of directory user.
type Role string

const (
	// RoleStudent is a student whose records are held in the directory.
	RoleStudent Role = "student"
	// RoleAdmin is an institution administrator allowed to write records.
	RoleAdmin Role = "admin"
)

// User is a directory entry linking a student identifier to a wallet
// address and the records known for it.
type User struct {
	// StudentID is the institution-assigned identifier (e.g. STU-2024-001).
	StudentID string `json:"studentId"`
	// Name is the display name of the user.
	Name string `json:"name"`
	// WalletAddress is the principal owning the user's records.
	WalletAddress Principal `json:"walletAddress"`
	// Role is the user's directory role.
	Role Role `json:"role"`
	// Records holds the academic records known for the user.
	Records []AcademicRecord `json:"records"`
}

// VerifiedRecords returns only the records whose ledger transaction has
// been confirmed.
func (u *User) VerifiedRecords() []AcademicRecord {
	verified := make([]AcademicRecord, 0, len(u.Records))
	for _, r := range u.Records {
		if r.Verified {
			verified = append(verified, r)
		}
	}
	return verified
}
