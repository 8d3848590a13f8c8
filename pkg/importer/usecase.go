package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/artem13815/useradmin/pkg/archive"
	"github.com/artem13815/useradmin/pkg/users"
)

// Stage names the pipeline step that rejected a batch.
type Stage string

const (
	StageStructure  Stage = "structure"
	StageRows       Stage = "rows"
	StageDuplicates Stage = "duplicates"
	StageExisting   Stage = "existing"
)

// RejectionError is returned when a batch fails one of the validation stages.
// Nothing has been written to the store when it is returned.
type RejectionError struct {
	Stage           Stage
	MissingColumns  []string
	RowErrors       []RowError
	DuplicateEmails []string
}

func (e *RejectionError) Error() string {
	switch e.Stage {
	case StageStructure:
		return "missing columns: " + strings.Join(e.MissingColumns, ", ")
	case StageRows:
		return fmt.Sprintf("%d invalid rows", len(e.RowErrors))
	case StageDuplicates:
		return "duplicate emails in file: " + strings.Join(e.DuplicateEmails, ", ")
	case StageExisting:
		return "emails already exist: " + strings.Join(e.DuplicateEmails, ", ")
	}
	return "import rejected"
}

// Store is the persistence the import pipeline needs.
type Store interface {
	ExistingEmails(ctx context.Context, emails []string) ([]string, error)
	CreateBatch(ctx context.Context, us []users.User) error
}

// Upload is one uploaded workbook.
type Upload struct {
	Filename string
	Data     []byte
}

// Result describes a committed batch.
type Result struct {
	Count int                `json:"count"`
	Users []users.PublicUser `json:"users"`
}

// UseCase imports users from spreadsheets.
type UseCase interface {
	Import(ctx context.Context, up Upload) (Result, error)
}

type service struct {
	store   Store
	archive archive.Archiver
	log     *slog.Logger
	now     func() time.Time
}

func NewService(store Store, arch archive.Archiver, log *slog.Logger) UseCase {
	if arch == nil {
		arch = archive.Nop{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &service{store: store, archive: arch, log: log, now: time.Now}
}

// Import runs the staged pipeline: header check, per-row validation,
// in-file uniqueness, store uniqueness, then one atomic insert. It stops at
// the first failing stage.
func (s *service) Import(ctx context.Context, up Upload) (Result, error) {
	sheet, err := ParseSheet(up.Filename, up.Data)
	if err != nil {
		return Result{}, err
	}

	if missing := MissingColumns(sheet.Header); len(missing) > 0 {
		return Result{}, &RejectionError{Stage: StageStructure, MissingColumns: missing}
	}
	if len(sheet.Rows) == 0 {
		return Result{}, ErrEmptySheet
	}

	candidates := Classify(sheet.Rows)
	if rowErrs := RowErrors(candidates); len(rowErrs) > 0 {
		return Result{}, &RejectionError{Stage: StageRows, RowErrors: rowErrs}
	}
	rows := make([]Row, 0, len(candidates))
	for _, c := range candidates {
		rows = append(rows, c.Row)
	}

	if dups := DuplicateEmails(rows); len(dups) > 0 {
		return Result{}, &RejectionError{Stage: StageDuplicates, DuplicateEmails: dups}
	}

	emails := make([]string, 0, len(rows))
	for _, r := range rows {
		emails = append(emails, r.Email)
	}
	existing, err := s.store.ExistingEmails(ctx, emails)
	if err != nil {
		return Result{}, fmt.Errorf("check existing emails: %w", err)
	}
	if len(existing) > 0 {
		return Result{}, &RejectionError{Stage: StageExisting, DuplicateEmails: existing}
	}

	batch, err := s.buildUsers(ctx, rows)
	if err != nil {
		return Result{}, err
	}
	if err := s.store.CreateBatch(ctx, batch); err != nil {
		if errors.Is(err, users.ErrEmailExists) {
			// another writer stored one of the emails after the pre-check
			return Result{}, s.lateConflict(ctx, emails, err)
		}
		return Result{}, fmt.Errorf("commit batch: %w", err)
	}

	res := Result{Count: len(batch), Users: make([]users.PublicUser, 0, len(batch))}
	for _, u := range batch {
		res.Users = append(res.Users, u.Public())
	}
	s.archiveUpload(ctx, up, res.Count)
	return res, nil
}

// buildUsers hashes every password; bcrypt dominates import time so rows are
// hashed in parallel.
func (s *service) buildUsers(ctx context.Context, rows []Row) ([]users.User, error) {
	out := make([]users.User, len(rows))
	created := s.now().UTC()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, r := range rows {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			hash, err := users.HashPassword(r.Password)
			if err != nil {
				return fmt.Errorf("hash password for %s: %w", r.Email, err)
			}
			out[i] = users.User{
				ID:           uuid.New(),
				FirstName:    r.Name,
				LastName:     r.Surname,
				Email:        r.Email,
				Age:          r.Age,
				PasswordHash: hash,
				CreatedAt:    created,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *service) lateConflict(ctx context.Context, emails []string, commitErr error) error {
	existing, err := s.store.ExistingEmails(ctx, emails)
	if err != nil {
		return fmt.Errorf("check existing emails: %w", err)
	}
	if len(existing) == 0 {
		// the conflicting writer rolled back; nothing to name
		return fmt.Errorf("commit batch: %w", commitErr)
	}
	return &RejectionError{Stage: StageExisting, DuplicateEmails: existing}
}

func (s *service) archiveUpload(ctx context.Context, up Upload, count int) {
	name := fmt.Sprintf("%s-%s%s", s.now().UTC().Format("20060102T150405Z"), uuid.NewString(), strings.ToLower(filepath.Ext(up.Filename)))
	loc, err := s.archive.Store(ctx, name, up.Data)
	if err != nil {
		s.log.Error("archive import file", "filename", up.Filename, "err", err)
		return
	}
	if loc != "" {
		s.log.Info("import file archived", "filename", up.Filename, "location", loc, "users", count)
	}
}
