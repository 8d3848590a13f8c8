package users

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// PageSize is the fixed number of users per listing page.
const PageSize = 10

// MaxPage bounds requested page numbers so the row offset cannot overflow.
const MaxPage = math.MaxInt32

// UseCase describes user management behavior.
type UseCase interface {
	List(ctx context.Context, f Filter, page int) (Page, error)
	Get(ctx context.Context, id uuid.UUID) (PublicUser, error)
	Create(ctx context.Context, in CreateInput) (PublicUser, error)
	// EnsureUser creates the user unless the email is already stored.
	EnsureUser(ctx context.Context, in CreateInput) (created bool, err error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) UseCase { return &service{repo: repo} }

func (s *service) List(ctx context.Context, f Filter, page int) (Page, error) {
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	var (
		items []User
		total int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = s.repo.List(gctx, f, PageSize, (page-1)*PageSize)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.repo.Count(gctx, f)
		return err
	})
	if err := g.Wait(); err != nil {
		return Page{}, fmt.Errorf("list users: %w", err)
	}

	out := Page{Users: make([]PublicUser, 0, len(items)), TotalPages: TotalPages(total)}
	for _, u := range items {
		out.Users = append(out.Users, u.Public())
	}
	return out, nil
}

// TotalPages returns ceil(total / PageSize).
func TotalPages(total int) int {
	if total <= 0 {
		return 0
	}
	return (total + PageSize - 1) / PageSize
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (PublicUser, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return PublicUser{}, err
	}
	return u.Public(), nil
}

func (s *service) Create(ctx context.Context, in CreateInput) (PublicUser, error) {
	if err := in.Validate(); err != nil {
		return PublicUser{}, err
	}
	exists, err := s.repo.EmailExists(ctx, in.Email)
	if err != nil {
		return PublicUser{}, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return PublicUser{}, ErrEmailExists
	}
	u, err := newUser(in)
	if err != nil {
		return PublicUser{}, err
	}
	// a concurrent insert of the same email surfaces here as ErrEmailExists
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, ErrEmailExists) {
			return PublicUser{}, ErrEmailExists
		}
		return PublicUser{}, fmt.Errorf("create user: %w", err)
	}
	return u.Public(), nil
}

func (s *service) EnsureUser(ctx context.Context, in CreateInput) (bool, error) {
	if err := in.Validate(); err != nil {
		return false, err
	}
	u, err := newUser(in)
	if err != nil {
		return false, err
	}
	created, err := s.repo.Upsert(ctx, u)
	if err != nil {
		return false, fmt.Errorf("upsert user: %w", err)
	}
	return created, nil
}

func newUser(in CreateInput) (User, error) {
	hash, err := HashPassword(in.Password)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}
	return User{
		ID:           uuid.New(),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		Age:          *in.Age,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}, nil
}
