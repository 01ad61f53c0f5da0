// seed_admin crea el primer usuario Admin en la base de datos configurada.
//
// Uso: go run ./cmd/seed_admin -email admin@ferreteria.co -name "Administrador"
// La contraseña se toma de ADMIN_PASSWORD (o -password). Aplica las migraciones antes de crear el usuario.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/inventario-ferreteria/internal/application/dto"
	"github.com/jhoicas/inventario-ferreteria/internal/application/usecase"
	"github.com/jhoicas/inventario-ferreteria/internal/domain"
	"github.com/jhoicas/inventario-ferreteria/internal/domain/entity"
	"github.com/jhoicas/inventario-ferreteria/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-ferreteria/internal/infrastructure/security"
	"github.com/jhoicas/inventario-ferreteria/pkg/config"
	"github.com/jhoicas/inventario-ferreteria/pkg/logger"
)

func main() {
	email := flag.String("email", "", "correo del administrador")
	name := flag.String("name", "Administrador", "nombre del administrador")
	password := flag.String("password", os.Getenv("ADMIN_PASSWORD"), "contraseña (por defecto ADMIN_PASSWORD)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "seed_admin"})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.MigratePool(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	uc := usecase.NewUserUseCase(postgres.NewUserRepository(pool), security.NewBcryptHasher(cfg.Security.BcryptCost))
	user, err := uc.Create(ctx, dto.CreateUserRequest{
		Email:    *email,
		Password: *password,
		Name:     *name,
		Role:     entity.RoleAdmin,
	})
	switch {
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		log.Warn().Str("email", *email).Msg("el administrador ya existe, nada que hacer")
		return
	case err != nil:
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			fmt.Fprintf(os.Stderr, "Dato inválido: %s\n", verr.Error())
			os.Exit(2)
		}
		log.Fatal().Err(err).Msg("crear administrador")
	}
	log.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("administrador creado")
}
