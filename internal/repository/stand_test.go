package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/festivapp/festival-api/internal/domain"
	"github.com/festivapp/festival-api/internal/repository/dao"
)

type mockStandDAO struct {
	InsertFn                  func(ctx context.Context, stand dao.Stand) (dao.Stand, error)
	FindByIDFn                func(ctx context.Context, id uint) (dao.Stand, error)
	FindByFestivalIDFn        func(ctx context.Context, festivalID uint, category string) ([]dao.Stand, error)
	UpdateFn                  func(ctx context.Context, id uint, fields map[string]any) (dao.Stand, error)
	DeleteFn                  func(ctx context.Context, id uint) error
	InsertStaffFn             func(ctx context.Context, staff dao.StandStaff) (dao.StandStaff, error)
	DeleteStaffFn             func(ctx context.Context, standID, userID uint) error
	FindStaffFn               func(ctx context.Context, standID uint) ([]dao.StandStaff, error)
	FindStaffByStandAndUserFn func(ctx context.Context, standID, userID uint) (dao.StandStaff, error)
	FindStandsByUserIDFn      func(ctx context.Context, userID uint) ([]dao.Stand, error)
}

func (m *mockStandDAO) Insert(ctx context.Context, stand dao.Stand) (dao.Stand, error) {
	return m.InsertFn(ctx, stand)
}

func (m *mockStandDAO) FindByID(ctx context.Context, id uint) (dao.Stand, error) {
	return m.FindByIDFn(ctx, id)
}

func (m *mockStandDAO) FindByFestivalID(ctx context.Context, festivalID uint, category string) ([]dao.Stand, error) {
	return m.FindByFestivalIDFn(ctx, festivalID, category)
}

func (m *mockStandDAO) Update(ctx context.Context, id uint, fields map[string]any) (dao.Stand, error) {
	return m.UpdateFn(ctx, id, fields)
}

func (m *mockStandDAO) Delete(ctx context.Context, id uint) error {
	return m.DeleteFn(ctx, id)
}

func (m *mockStandDAO) InsertStaff(ctx context.Context, staff dao.StandStaff) (dao.StandStaff, error) {
	return m.InsertStaffFn(ctx, staff)
}

func (m *mockStandDAO) DeleteStaff(ctx context.Context, standID, userID uint) error {
	return m.DeleteStaffFn(ctx, standID, userID)
}

func (m *mockStandDAO) FindStaff(ctx context.Context, standID uint) ([]dao.StandStaff, error) {
	return m.FindStaffFn(ctx, standID)
}

func (m *mockStandDAO) FindStaffByStandAndUser(ctx context.Context, standID, userID uint) (dao.StandStaff, error) {
	return m.FindStaffByStandAndUserFn(ctx, standID, userID)
}

func (m *mockStandDAO) FindStandsByUserID(ctx context.Context, userID uint) ([]dao.Stand, error) {
	return m.FindStandsByUserIDFn(ctx, userID)
}

func TestStandRepository_Update(t *testing.T) {
	t.Run("only the present fields reach the database", func(t *testing.T) {
		var gotFields map[string]any
		standDAO := &mockStandDAO{
			UpdateFn: func(ctx context.Context, id uint, fields map[string]any) (dao.Stand, error) {
				gotFields = fields
				return dao.Stand{ID: id, Name: "Beer Garden", Status: "INACTIVE"}, nil
			},
		}
		repo := NewStandRepository(standDAO, nil)

		name := "Beer Garden"
		status := domain.StandInactive
		_, err := repo.Update(context.Background(), 4, domain.StandUpdate{
			Name:   &name,
			Status: &status,
		})

		require.NoError(t, err)
		assert.Equal(t, map[string]any{
			"name":   "Beer Garden",
			"status": "INACTIVE",
		}, gotFields, "absent fields must not produce column updates")
	})

	t.Run("an empty update reads through", func(t *testing.T) {
		found := false
		standDAO := &mockStandDAO{
			FindByIDFn: func(ctx context.Context, id uint) (dao.Stand, error) {
				found = true
				return dao.Stand{ID: id, Name: "Beer Garden"}, nil
			},
			UpdateFn: func(ctx context.Context, id uint, fields map[string]any) (dao.Stand, error) {
				t.Fatal("an empty update must not hit the database")
				return dao.Stand{}, nil
			},
		}
		repo := NewStandRepository(standDAO, nil)

		stand, err := repo.Update(context.Background(), 4, domain.StandUpdate{})

		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "Beer Garden", stand.Name)
	})

	t.Run("settings fields map to their columns", func(t *testing.T) {
		var gotFields map[string]any
		standDAO := &mockStandDAO{
			UpdateFn: func(ctx context.Context, id uint, fields map[string]any) (dao.Stand, error) {
				gotFields = fields
				return dao.Stand{ID: id, RequiresPIN: true}, nil
			},
		}
		repo := NewStandRepository(standDAO, nil)

		requiresPIN := true
		_, err := repo.Update(context.Background(), 4, domain.StandUpdate{
			RequiresPIN: &requiresPIN,
		})

		require.NoError(t, err)
		assert.Equal(t, map[string]any{"requires_pin": true}, gotFields)
	})
}
