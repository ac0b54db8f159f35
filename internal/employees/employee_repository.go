package employees

import (
	"context"
	"fmt"
	"strings"

	"assettracker/internal/repository"
	custom_error "assettracker/pkg/errors"
	"assettracker/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type CreateEmployeeRequest struct {
	Name       string `json:"name" binding:"required"`
	Department string `json:"department"`
	Source     string `json:"source"`
}

type EmployeeRepository interface {
	GetEmployees(ctx context.Context) ([]models.Employee, error)
	PersistEmployee(ctx context.Context, req CreateEmployeeRequest) (*models.Employee, error)
}

type employeeRepositoryImpl struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) EmployeeRepository {
	return &employeeRepositoryImpl{repository: r}
}

func (r *employeeRepositoryImpl) GetEmployees(ctx context.Context) ([]models.Employee, error) {
	employees := []models.Employee{}
	query := r.repository.GoquDBWrapper.
		Select("id", "name", "department", "source", "last_updated").
		From("employees").
		Order(goqu.C("id").Desc())

	if err := query.Executor().ScanStructsContext(ctx, &employees); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return employees, nil
}

func (r *employeeRepositoryImpl) PersistEmployee(ctx context.Context, req CreateEmployeeRequest) (*models.Employee, error) {
	source := strings.TrimSpace(req.Source)
	if source == "" {
		source = models.EmployeeSourceManual
	}

	query := r.repository.GoquDBWrapper.Insert("employees").
		Rows(goqu.Record{
			"name":       strings.TrimSpace(req.Name),
			"department": strings.TrimSpace(req.Department),
			"source":     source,
		}).
		Returning("id", "name", "department", "source", "last_updated")

	var employee models.Employee
	if _, err := query.Executor().ScanStructContext(ctx, &employee); err != nil {
		return nil, fmt.Errorf("failed to insert employee: %w", custom_error.FromPQ(err))
	}

	return &employee, nil
}
