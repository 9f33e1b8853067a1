package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// ApprovalStatus gates the interactive UI. Only approved users get the tree;
// the record is what the remote user-sync collaborator upserts.
type ApprovalStatus string

const (
	StatusPending  ApprovalStatus = "pending"
	StatusApproved ApprovalStatus = "approved"
	StatusRejected ApprovalStatus = "rejected"
)

func ParseApprovalStatus(s string) (ApprovalStatus, error) {
	switch ApprovalStatus(strings.ToLower(strings.TrimSpace(s))) {
	case StatusPending:
		return StatusPending, nil
	case StatusApproved:
		return StatusApproved, nil
	case StatusRejected:
		return StatusRejected, nil
	}
	return "", fmt.Errorf("unknown approval status %q", s)
}

type UserInfo struct {
	Email  string         `json:"email"`
	Status ApprovalStatus `json:"status"`
}

type Approval struct {
	Token    string   `json:"token"`
	UserInfo UserInfo `json:"user_info"`
}

// Approved reports whether the record lets the user through the gate.
func (a Approval) Approved() bool {
	return a.UserInfo.Status == StatusApproved
}

// SaveApproval stores the (single) approval record for this workspace.
func (s Store) SaveApproval(ctx context.Context, a Approval) error {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.ExecContext(ctx, `
		INSERT INTO approval (id, token, email, status, updated_at_unixms) VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			token = excluded.token,
			email = excluded.email,
			status = excluded.status,
			updated_at_unixms = excluded.updated_at_unixms
	`, a.Token, a.UserInfo.Email, string(a.UserInfo.Status), time.Now().UnixMilli())
	return err
}

// LoadApproval returns the approval record, if one has been created.
func (s Store) LoadApproval(ctx context.Context) (Approval, bool, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return Approval{}, false, err
	}
	defer db.Close()

	var a Approval
	var status string
	err = db.QueryRowContext(ctx, `SELECT token, email, status FROM approval WHERE id = 1`).
		Scan(&a.Token, &a.UserInfo.Email, &status)
	if err == sql.ErrNoRows {
		return Approval{}, false, nil
	}
	if err != nil {
		return Approval{}, false, err
	}
	a.UserInfo.Status = ApprovalStatus(status)
	return a, true, nil
}
