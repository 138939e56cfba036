package voucher

import (
	"context"

	"taskrewards-platform/pkg/db/option"
	"taskrewards-platform/pkg/errutil"
	"taskrewards-platform/pkg/repository"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

type Service struct {
	db   *gorm.DB
	node *snowflake.Node

	rows repository.Repository[Voucher]
}

type ServiceParams struct {
	fx.In
	DB   *gorm.DB
	Node *snowflake.Node
}

func NewService(p ServiceParams) *Service {
	return &Service{
		db:   p.DB,
		node: p.Node,

		rows: repository.ProvideStore[Voucher](p.DB),
	}
}

type CreateInput struct {
	Name        string
	Title       string
	Description string
	ImagePath   string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*Voucher, error) {
	if in.Name == "" {
		return nil, errutil.ValidationFailed("Voucher name is required", nil)
	}
	if in.Title == "" {
		in.Title = in.Name
	}

	row := Voucher{
		ID:          s.node.Generate().String(),
		Name:        in.Name,
		Title:       in.Title,
		Description: in.Description,
		ImagePath:   in.ImagePath,
		Status:      StatusActive,
	}
	if err := s.rows.Create(ctx, &row); err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Voucher, error) {
	row, err := s.rows.FindOne(ctx, &Voucher{ID: id})
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, errutil.NotFound("Voucher not found", nil)
	}
	return row, nil
}

func (s *Service) List(ctx context.Context) ([]Voucher, error) {
	return s.rows.Find(ctx, &Voucher{},
		option.WithSortBy(option.QuerySortBy{OrderBy: "DESC"}))
}
