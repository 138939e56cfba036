package product

import (
	"context"

	"taskrewards-platform/pkg/db/option"
	"taskrewards-platform/pkg/errutil"
	"taskrewards-platform/pkg/repository"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

type Service struct {
	db   *gorm.DB
	node *snowflake.Node

	products repository.Repository[Product]
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

		products: repository.ProvideStore[Product](p.DB),
	}
}

type CreateInput struct {
	Name        string
	ImagePath   string
	LevelPrices [5]decimal.Decimal
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*Product, error) {
	if in.Name == "" {
		return nil, errutil.ValidationFailed("Product name is required", nil)
	}
	if in.LevelPrices[0].LessThanOrEqual(decimal.Zero) {
		return nil, errutil.ValidationFailed("Level 1 price must be positive", nil)
	}

	row := Product{
		ID:          s.node.Generate().String(),
		Name:        in.Name,
		ImagePath:   in.ImagePath,
		Level1Price: in.LevelPrices[0],
		Level2Price: in.LevelPrices[1],
		Level3Price: in.LevelPrices[2],
		Level4Price: in.LevelPrices[3],
		Level5Price: in.LevelPrices[4],
		Status:      StatusActive,
	}
	if err := s.products.Create(ctx, &row); err != nil {
		return nil, err
	}
	return &row, nil
}

// Update applies the given column values to an existing product.
func (s *Service) Update(ctx context.Context, id string, values map[string]any) (*Product, error) {
	row, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(values) > 0 {
		if err := s.products.Update(ctx, id, values); err != nil {
			return nil, err
		}
	}
	return s.Get(ctx, row.ID)
}

func (s *Service) SetStatus(ctx context.Context, id, status string) error {
	if status != StatusActive && status != StatusInactive {
		return errutil.ValidationFailed("Status must be active or inactive", nil)
	}
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.products.Update(ctx, id, map[string]any{"status": status})
}

func (s *Service) Get(ctx context.Context, id string) (*Product, error) {
	row, err := s.products.FindOne(ctx, &Product{ID: id})
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, errutil.NotFound("Product not found", nil)
	}
	return row, nil
}

func (s *Service) List(ctx context.Context) ([]Product, error) {
	return s.products.Find(ctx, &Product{},
		option.WithSortBy(option.QuerySortBy{OrderBy: "DESC"}))
}

// ListActive feeds both the user-facing gallery and the assignment pool.
func (s *Service) ListActive(ctx context.Context) ([]Product, error) {
	return s.products.Find(ctx, &Product{Status: StatusActive},
		option.WithSortBy(option.QuerySortBy{OrderBy: "DESC"}))
}
