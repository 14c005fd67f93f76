package repository

import (
	"context"
	"fmt"

	"github.com/festivapp/festival-api/internal/domain"
	"github.com/festivapp/festival-api/internal/repository/dao"
)

var (
	ErrStandNotFound        = dao.ErrStandNotFound
	ErrStaffNotFound        = dao.ErrStaffNotFound
	ErrStaffAlreadyAssigned = dao.ErrStaffAlreadyAssigned
	ErrProductNotFound      = dao.ErrProductNotFound
)

type StandDAO interface {
	Insert(ctx context.Context, stand dao.Stand) (dao.Stand, error)
	FindByID(ctx context.Context, id uint) (dao.Stand, error)
	FindByFestivalID(ctx context.Context, festivalID uint, category string) ([]dao.Stand, error)
	Update(ctx context.Context, id uint, fields map[string]any) (dao.Stand, error)
	Delete(ctx context.Context, id uint) error
	InsertStaff(ctx context.Context, staff dao.StandStaff) (dao.StandStaff, error)
	DeleteStaff(ctx context.Context, standID, userID uint) error
	FindStaff(ctx context.Context, standID uint) ([]dao.StandStaff, error)
	FindStaffByStandAndUser(ctx context.Context, standID, userID uint) (dao.StandStaff, error)
	FindStandsByUserID(ctx context.Context, userID uint) ([]dao.Stand, error)
}

type ProductDAO interface {
	Insert(ctx context.Context, product dao.Product) (dao.Product, error)
	FindByID(ctx context.Context, id uint) (dao.Product, error)
	FindByStandID(ctx context.Context, standID uint) ([]dao.Product, error)
	Update(ctx context.Context, id uint, fields map[string]any) (dao.Product, error)
	Delete(ctx context.Context, id uint) error
}

type StandRepository struct {
	dao        StandDAO
	productDAO ProductDAO
}

func NewStandRepository(dao StandDAO, productDAO ProductDAO) *StandRepository {
	return &StandRepository{
		dao:        dao,
		productDAO: productDAO,
	}
}

func (r *StandRepository) Create(ctx context.Context, stand domain.Stand) (domain.Stand, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(stand))
	if err != nil {
		return domain.Stand{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *StandRepository) FindByID(ctx context.Context, id uint) (domain.Stand, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Stand{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *StandRepository) FindByFestivalID(ctx context.Context, festivalID uint, category domain.StandCategory) ([]domain.Stand, error) {
	found, err := r.dao.FindByFestivalID(ctx, festivalID, string(category))
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByFestivalID -> %w", err)
	}

	return r.daosToDomain(found), nil
}

// Update folds the non-nil fields of upd into column updates.
func (r *StandRepository) Update(ctx context.Context, id uint, upd domain.StandUpdate) (domain.Stand, error) {
	fields := map[string]any{}
	if upd.Name != nil {
		fields["name"] = *upd.Name
	}
	if upd.Description != nil {
		fields["description"] = *upd.Description
	}
	if upd.Category != nil {
		fields["category"] = string(*upd.Category)
	}
	if upd.Location != nil {
		fields["location"] = *upd.Location
	}
	if upd.ImageURL != nil {
		fields["image_url"] = *upd.ImageURL
	}
	if upd.Status != nil {
		fields["status"] = string(*upd.Status)
	}
	if upd.AcceptsOnlyTokens != nil {
		fields["accepts_only_tokens"] = *upd.AcceptsOnlyTokens
	}
	if upd.RequiresPIN != nil {
		fields["requires_pin"] = *upd.RequiresPIN
	}
	if upd.PrintReceipts != nil {
		fields["print_receipts"] = *upd.PrintReceipts
	}
	if upd.Color != nil {
		fields["color"] = *upd.Color
	}

	if len(fields) == 0 {
		return r.FindByID(ctx, id)
	}

	updated, err := r.dao.Update(ctx, id, fields)
	if err != nil {
		return domain.Stand{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *StandRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *StandRepository) AssignStaff(ctx context.Context, staff domain.StandStaff) (domain.StandStaff, error) {
	created, err := r.dao.InsertStaff(ctx, dao.StandStaff{
		StandID: staff.StandID,
		UserID:  staff.UserID,
		Role:    string(staff.Role),
		PINHash: staff.PINHash,
	})
	if err != nil {
		return domain.StandStaff{}, fmt.Errorf("r.dao.InsertStaff -> %w", err)
	}

	return r.staffDaoToDomain(created), nil
}

func (r *StandRepository) RemoveStaff(ctx context.Context, standID, userID uint) error {
	if err := r.dao.DeleteStaff(ctx, standID, userID); err != nil {
		return fmt.Errorf("r.dao.DeleteStaff -> %w", err)
	}

	return nil
}

func (r *StandRepository) FindStaff(ctx context.Context, standID uint) ([]domain.StandStaff, error) {
	found, err := r.dao.FindStaff(ctx, standID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindStaff -> %w", err)
	}

	staff := make([]domain.StandStaff, len(found))
	for i, s := range found {
		staff[i] = r.staffDaoToDomain(s)
	}

	return staff, nil
}

func (r *StandRepository) FindStaffByStandAndUser(ctx context.Context, standID, userID uint) (domain.StandStaff, error) {
	found, err := r.dao.FindStaffByStandAndUser(ctx, standID, userID)
	if err != nil {
		return domain.StandStaff{}, fmt.Errorf("r.dao.FindStaffByStandAndUser -> %w", err)
	}

	return r.staffDaoToDomain(found), nil
}

func (r *StandRepository) FindStandsByUserID(ctx context.Context, userID uint) ([]domain.Stand, error) {
	found, err := r.dao.FindStandsByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindStandsByUserID -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *StandRepository) CreateProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	created, err := r.productDAO.Insert(ctx, r.productDomainToDao(product))
	if err != nil {
		return domain.Product{}, fmt.Errorf("r.productDAO.Insert -> %w", err)
	}

	return r.productDaoToDomain(created), nil
}

func (r *StandRepository) FindProductByID(ctx context.Context, id uint) (domain.Product, error) {
	found, err := r.productDAO.FindByID(ctx, id)
	if err != nil {
		return domain.Product{}, fmt.Errorf("r.productDAO.FindByID -> %w", err)
	}

	return r.productDaoToDomain(found), nil
}

func (r *StandRepository) FindProductsByStandID(ctx context.Context, standID uint) ([]domain.Product, error) {
	found, err := r.productDAO.FindByStandID(ctx, standID)
	if err != nil {
		return nil, fmt.Errorf("r.productDAO.FindByStandID -> %w", err)
	}

	products := make([]domain.Product, len(found))
	for i, p := range found {
		products[i] = r.productDaoToDomain(p)
	}

	return products, nil
}

func (r *StandRepository) UpdateProduct(ctx context.Context, id uint, upd domain.ProductUpdate) (domain.Product, error) {
	fields := map[string]any{}
	if upd.Name != nil {
		fields["name"] = *upd.Name
	}
	if upd.Description != nil {
		fields["description"] = *upd.Description
	}
	if upd.Price != nil {
		fields["price"] = *upd.Price
	}
	if upd.Quantity != nil {
		fields["quantity"] = *upd.Quantity
	}
	if upd.IsActive != nil {
		fields["is_active"] = *upd.IsActive
	}

	if len(fields) == 0 {
		return r.FindProductByID(ctx, id)
	}

	updated, err := r.productDAO.Update(ctx, id, fields)
	if err != nil {
		return domain.Product{}, fmt.Errorf("r.productDAO.Update -> %w", err)
	}

	return r.productDaoToDomain(updated), nil
}

func (r *StandRepository) DeleteProduct(ctx context.Context, id uint) error {
	if err := r.productDAO.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.productDAO.Delete -> %w", err)
	}

	return nil
}

func (r *StandRepository) domainToDao(s domain.Stand) dao.Stand {
	return dao.Stand{
		ID:                s.ID,
		FestivalID:        s.FestivalID,
		Name:              s.Name,
		Description:       s.Description,
		Category:          string(s.Category),
		Location:          s.Location,
		ImageURL:          s.ImageURL,
		Status:            string(s.Status),
		AcceptsOnlyTokens: s.Settings.AcceptsOnlyTokens,
		RequiresPIN:       s.Settings.RequiresPIN,
		PrintReceipts:     s.Settings.PrintReceipts,
		Color:             s.Settings.Color,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
}

func (r *StandRepository) daoToDomain(s dao.Stand) domain.Stand {
	stand := domain.Stand{
		ID:          s.ID,
		FestivalID:  s.FestivalID,
		Name:        s.Name,
		Description: s.Description,
		Category:    domain.StandCategory(s.Category),
		Location:    s.Location,
		ImageURL:    s.ImageURL,
		Status:      domain.StandStatus(s.Status),
		Settings: domain.StandSettings{
			AcceptsOnlyTokens: s.AcceptsOnlyTokens,
			RequiresPIN:       s.RequiresPIN,
			PrintReceipts:     s.PrintReceipts,
			Color:             s.Color,
		},
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}

	if len(s.Products) > 0 {
		stand.Products = make([]domain.Product, len(s.Products))
		for i, p := range s.Products {
			stand.Products[i] = r.productDaoToDomain(p)
		}
	}

	return stand
}

func (r *StandRepository) daosToDomain(stands []dao.Stand) []domain.Stand {
	domainStands := make([]domain.Stand, len(stands))
	for i, s := range stands {
		domainStands[i] = r.daoToDomain(s)
	}

	return domainStands
}

func (r *StandRepository) staffDaoToDomain(s dao.StandStaff) domain.StandStaff {
	return domain.StandStaff{
		ID:        s.ID,
		StandID:   s.StandID,
		UserID:    s.UserID,
		Role:      domain.StaffRole(s.Role),
		PINHash:   s.PINHash,
		CreatedAt: s.CreatedAt,
	}
}

func (r *StandRepository) productDomainToDao(p domain.Product) dao.Product {
	return dao.Product{
		ID:          p.ID,
		StandID:     p.StandID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Quantity:    p.Quantity,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (r *StandRepository) productDaoToDomain(p dao.Product) domain.Product {
	return domain.Product{
		ID:          p.ID,
		StandID:     p.StandID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Quantity:    p.Quantity,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
