package customer

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const legacyHashPrefix = "legacy_password_hash:"

// RepairReport summarises a password-hash repair run.
type RepairReport struct {
	Scanned  int
	Repaired int
	Skipped  int
}

// RepairPasswordHashes moves legacy bcrypt hashes recorded in customer notes
// into password_hash. Customers that already have a hash are never touched, so
// running it again is a no-op. With dryRun set nothing is written.
func RepairPasswordHashes(ctx context.Context, repo Repository, dryRun bool) (RepairReport, error) {
	var report RepairReport

	customers, err := repo.ListWithoutPasswordHash(ctx)
	if err != nil {
		return report, fmt.Errorf("listing customers: %w", err)
	}

	for _, c := range customers {
		report.Scanned++

		hash, ok := legacyHash(c.Notes)
		if !ok {
			report.Skipped++
			continue
		}

		if dryRun {
			slog.Info("would repair password hash", "customerId", c.ID)
			report.Repaired++
			continue
		}

		changed, err := repo.SetPasswordHash(ctx, c.ID, hash)
		if err != nil {
			return report, fmt.Errorf("repairing customer %s: %w", c.ID, err)
		}
		if !changed {
			report.Skipped++
			continue
		}
		report.Repaired++
	}

	return report, nil
}

// legacyHash extracts a bcrypt hash from a "legacy_password_hash:<hash>" line.
func legacyHash(notes *string) (string, bool) {
	if notes == nil {
		return "", false
	}

	sc := bufio.NewScanner(strings.NewReader(*notes))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if !strings.HasPrefix(line, legacyHashPrefix) {
			continue
		}
		hash := strings.TrimSpace(strings.TrimPrefix(line, legacyHashPrefix))
		if _, err := bcrypt.Cost([]byte(hash)); err != nil {
			return "", false
		}
		return hash, true
	}
	return "", false
}
