package repository

import "github.com/educhain/records/internal/models"

// Well-known development wallet addresses.
const (
	AdminWallet    models.Principal = "SP2J6B0D5R0D2Q5BFA05NK8338G48YV319VFEF34B"
	StudentWallet1 models.Principal = "ST2J6B0D5R0D2Q5BFA05NK8338G48YV319VFEFABC"
	StudentWallet2 models.Principal = "ST3J6B0D5R0D2Q5BFA05NK8338G48YV319VFEFXYZ"
)

// SeedUsers returns the development directory fixture: an administrator
// and two students, one of them with a still-pending record.
func SeedUsers() []models.User {
	return []models.User{
		{
			StudentID:     "ADMIN-001",
			Name:          "School Administrator",
			WalletAddress: AdminWallet,
			Role:          models.RoleAdmin,
		},
		{
			StudentID:     "STU-2024-001",
			Name:          "Alice Johnson",
			WalletAddress: StudentWallet1,
			Role:          models.RoleStudent,
			Records: []models.AcademicRecord{
				{
					ID:            "REC-001",
					Course:        "Blockchain Fundamentals",
					Grade:         "A+",
					Year:          2023,
					Institution:   "NextGen University",
					Verified:      true,
					TransactionID: "0x9d1f1a0c6f3f0e2b8a4c5d6e7f8091a2b3c4d5e6f708192a3b4c5d6e7f809102",
				},
				{
					ID:            "REC-002",
					Course:        "Clarity Smart Contracts",
					Grade:         "A",
					Year:          2023,
					Institution:   "NextGen University",
					Verified:      true,
					TransactionID: "0x1b2c3d4e5f60718293a4b5c6d7e8f9012a3b4c5d6e7f8091a2b3c4d5e6f70813",
				},
				{
					ID:            "REC-003",
					Course:        "Decentralized Applications",
					Grade:         "B+",
					Year:          2024,
					Institution:   "NextGen University",
					Verified:      false,
					TransactionID: models.TxPending,
				},
			},
		},
		{
			StudentID:     "STU-2024-002",
			Name:          "Bob Williams",
			WalletAddress: StudentWallet2,
			Role:          models.RoleStudent,
			Records: []models.AcademicRecord{
				{
					ID:            "REC-004",
					Course:        "Introduction to Cryptography",
					Grade:         "A",
					Year:          2022,
					Institution:   "Tech Institute",
					Verified:      true,
					TransactionID: "0x7e8f90a1b2c3d4e5f60718293a4b5c6d7e8f9012a3b4c5d6e7f8091a2b3c4d50",
				},
				{
					ID:            "REC-005",
					Course:        "Data Structures",
					Grade:         "B",
					Year:          2023,
					Institution:   "Tech Institute",
					Verified:      true,
					TransactionID: "0x5a6b7c8d9e0f102132435465768798a9bacbdcedfe0f10213243546576879809",
				},
			},
		},
	}
}
