package store

import (
	"context"
	"errors"
	"fmt"

	"go-modelsdemo/apps/catalog/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var userList = listSpec{
	filters: map[string]filterKind{"is_staff": kindBool},
	search:  []string{"username"},
	order:   "username ASC",
}

// CreateUser 创建账号，密码用 bcrypt 加密
func (s *Store) CreateUser(ctx context.Context, username, password string, isStaff bool) (*model.User, error) {
	if password == "" {
		return nil, fmt.Errorf("%w: password is required", ErrInvalid)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &model.User{Username: username, Password: string(hash), IsStaff: isStaff}
	if err := validateEntity(u); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		return nil, translate(err)
	}
	return u, nil
}

// Authenticate 校验用户名密码，用户不存在和密码错误都返回 ErrInvalidCredentials
func (s *Store) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	var u model.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &u, nil
}

func (s *Store) ListUsers(ctx context.Context, opts ListOptions) ([]model.User, int64, error) {
	return listPage[model.User](s.db.WithContext(ctx), userList, opts)
}

func (s *Store) GetUser(ctx context.Context, id uint) (*model.User, error) {
	var u model.User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

// UpdateUser 修改用户名和员工标记，传了新密码才改密码
func (s *Store) UpdateUser(ctx context.Context, id uint, username, password string, isStaff bool) (*model.User, error) {
	u, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	u.Username = username
	u.IsStaff = isStaff
	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		u.Password = string(hash)
	}
	if err := validateEntity(u); err != nil {
		return nil, err
	}
	if err := updateAll(s.db.WithContext(ctx), u); err != nil {
		return nil, err
	}
	return u, nil
}

// DeleteUser 删除用户及其评价和订单，并重算被评价商品的评分
func (s *Store) DeleteUser(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := mustExist(tx, &model.User{}, id); err != nil {
			return err
		}

		var productIDs []uint
		if err := tx.Model(&model.Review{}).Where("user_id = ?", id).Distinct().Pluck("product_id", &productIDs).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&model.Review{}).Error; err != nil {
			return err
		}
		for _, productID := range productIDs {
			if err := recomputeRating(tx, productID); err != nil {
				return err
			}
		}

		var orderIDs []uint
		if err := tx.Model(&model.Order{}).Where("user_id = ?", id).Pluck("id", &orderIDs).Error; err != nil {
			return err
		}
		if err := deleteOrders(tx, orderIDs); err != nil {
			return err
		}
		return tx.Delete(&model.User{}, id).Error
	})
}
