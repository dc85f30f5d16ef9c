package repository

import (
	"context"

	"sistemapos/internal/model"

	"gorm.io/gorm"
)

type UsuarioRepository interface {
	FindByCorreo(ctx context.Context, correo string) (*model.Usuario, error)
}

type usuarioRepo struct{ db *gorm.DB }

func NewUsuarioRepository(db *gorm.DB) UsuarioRepository { return &usuarioRepo{db: db} }

func (r *usuarioRepo) FindByCorreo(ctx context.Context, correo string) (*model.Usuario, error) {
	var u model.Usuario
	err := r.db.WithContext(ctx).
		Where("correo = ? AND activo = true", correo).
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}
