package service

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/crypto/bcrypt"

	employeeerrors "shuttle/internal/employees/errors"
	"shuttle/internal/employees/repository"
	"shuttle/internal/employees/validator"
	tokenservice "shuttle/internal/tokens/service"
	"shuttle/pkg/config"
	apperrors "shuttle/pkg/errors"
	"shuttle/pkg/model"
	"shuttle/pkg/sanitizer"
)

// EmployeeService covers the employee directory plus the session lifecycle.
// Login exchanges credentials for a signed token; logout pushes the token
// onto the denylist.
type EmployeeService interface {
	Login(ctx context.Context, req *model.LoginRequest) (string, *model.Employee, error)
	Logout(ctx context.Context, token string) error
	Refresh(ctx context.Context, token string) (string, error)

	Create(ctx context.Context, req *model.EmployeeCreate) (*model.Employee, error)
	GetByID(ctx context.Context, id string) (*model.Employee, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Employee, int64, error)
	Update(ctx context.Context, id string, updates *model.EmployeeUpdate) error
	Delete(ctx context.Context, id string) error
}

type employeeService struct {
	repo      repository.EmployeeRepository
	tokens    tokenservice.TokenService
	validator *validator.EmployeeValidator
	cfg       *config.Config
}

func NewEmployeeService(
	repo repository.EmployeeRepository,
	tokens tokenservice.TokenService,
	validator *validator.EmployeeValidator,
	cfg *config.Config,
) EmployeeService {
	return &employeeService{
		repo:      repo,
		tokens:    tokens,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *employeeService) Login(ctx context.Context, req *model.LoginRequest) (string, *model.Employee, error) {
	if err := s.validator.ValidateLogin(req); err != nil {
		return "", nil, apperrors.Validation("Invalid login input", map[string]any{"error": err.Error()})
	}

	employee, err := s.repo.FindByWorkforceID(ctx, sanitizer.TrimAndNormalize(req.WorkforceID))
	if err != nil {
		if errors.Is(err, employeeerrors.ErrNotFound) {
			// Same rejection as a bad password so probes cannot tell
			// registered IDs apart.
			return "", nil, apperrors.Unauthorized("Invalid credentials")
		}
		return "", nil, apperrors.Internal("Failed to look up employee", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(employee.PasswordHash), []byte(req.Password)); err != nil {
		s.cfg.Log.Warn("Login rejected", "workforce_id", req.WorkforceID)
		return "", nil, apperrors.Unauthorized("Invalid credentials")
	}

	token, err := s.tokens.Issue(ctx, employee.ID, employee.Role)
	if err != nil {
		return "", nil, err
	}

	s.cfg.Log.Info("Employee logged in", "employee_id", employee.ID, "role", employee.Role)
	return token, employee, nil
}

func (s *employeeService) Logout(ctx context.Context, token string) error {
	return s.tokens.Revoke(ctx, token)
}

func (s *employeeService) Refresh(ctx context.Context, token string) (string, error) {
	return s.tokens.Refresh(ctx, token)
}

func (s *employeeService) Create(ctx context.Context, req *model.EmployeeCreate) (*model.Employee, error) {
	if err := s.validator.ValidateCreate(req); err != nil {
		s.cfg.Log.Warn("Employee validation failed", "error", err)
		return nil, apperrors.Validation("Invalid employee input", map[string]any{"error": err.Error()})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Internal("Failed to hash password", err)
	}

	role := req.Role
	if role == "" {
		role = model.RoleEmployee
	}
	employee := &model.Employee{
		WorkforceID:  sanitizer.TrimAndNormalize(req.WorkforceID),
		Name:         sanitizer.NormalizeName(req.Name),
		Email:        sanitizer.NormalizeEmail(req.Email),
		Role:         role,
		PasswordHash: string(hash),
	}

	if err := s.repo.Create(ctx, employee); err != nil {
		if errors.Is(err, employeeerrors.ErrDuplicateEmail) {
			return nil, apperrors.Conflict("An employee with this email or workforce ID already exists")
		}
		return nil, apperrors.Internal("Failed to create employee", err)
	}

	s.cfg.Log.Info("Employee created", "id", employee.ID, "workforce_id", employee.WorkforceID)
	return employee, nil
}

func (s *employeeService) GetByID(ctx context.Context, id string) (*model.Employee, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Employee ID cannot be empty")
	}

	employee, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, employeeerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Employee", id)
		}
		if errors.Is(err, employeeerrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid employee ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve employee", err)
	}
	return employee, nil
}

func (s *employeeService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Employee, int64, error) {
	var count int64
	var employees []*model.Employee
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count employees", "error", errCount)
			errCount = apperrors.Internal("Failed to count employees", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		employees, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list employees", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve employees", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}
	return employees, count, nil
}

func (s *employeeService) Update(ctx context.Context, id string, updates *model.EmployeeUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Employee ID cannot be empty")
	}
	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Employee update validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, employeeerrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Employee", id)
		}
		if errors.Is(err, employeeerrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid employee ID format")
		}
		return apperrors.Internal("Failed to check employee existence", err)
	}

	merged, err := s.mergeEmployeeUpdates(existing, updates)
	if err != nil {
		return err
	}

	if err := s.repo.Update(ctx, id, merged); err != nil {
		if errors.Is(err, employeeerrors.ErrDuplicateEmail) {
			return apperrors.Conflict("An employee with this email already exists")
		}
		return apperrors.Internal("Failed to update employee", err)
	}

	s.cfg.Log.Info("Employee updated", "id", id)
	return nil
}

func (s *employeeService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Employee ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, employeeerrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Employee", id)
		}
		if errors.Is(err, employeeerrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid employee ID format")
		}
		return apperrors.Internal("Failed to delete employee", err)
	}

	s.cfg.Log.Info("Employee deleted", "id", id)
	return nil
}

func (s *employeeService) mergeEmployeeUpdates(existing *model.Employee, updates *model.EmployeeUpdate) (*model.Employee, error) {
	merged := *existing

	if updates.Name != "" {
		merged.Name = sanitizer.NormalizeName(updates.Name)
	}
	if updates.Email != "" {
		merged.Email = sanitizer.NormalizeEmail(updates.Email)
	}
	if updates.Role != "" {
		merged.Role = updates.Role
	}
	if updates.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(updates.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, apperrors.Internal("Failed to hash password", err)
		}
		merged.PasswordHash = string(hash)
	}

	return &merged, nil
}
