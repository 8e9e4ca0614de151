package actions

import (
	"context"

	"devlink/client/backend"
	"devlink/internal/validate"
)

func (s *Service) ListProjects(ctx context.Context, q backend.ProjectQuery) Result {
	return read(ctx, s, "list-projects", "Failed to load projects", func(tok string) (*backend.Page[backend.Project], error) {
		return s.api.ListProjects(ctx, tok, q)
	})
}

func (s *Service) GetProject(ctx context.Context, id string) Result {
	return read(ctx, s, "get-project", "Project not found", func(tok string) (*backend.Project, error) {
		return s.api.GetProject(ctx, tok, id)
	})
}

func (s *Service) CreateProject(ctx context.Context, in backend.ProjectInput) Result {
	if fe := validate.Project.Check(in); fe != nil {
		return s.invalid("create-project", fe)
	}
	return mutate(ctx, s, "create-project", "Project created", "Failed to create project", func(tok string) (*backend.Project, error) {
		return s.api.CreateProject(ctx, tok, in)
	})
}

func (s *Service) UpdateProject(ctx context.Context, id string, in backend.ProjectInput) Result {
	if fe := validate.Project.Check(in); fe != nil {
		return s.invalid("update-project", fe)
	}
	return mutate(ctx, s, "update-project", "Project updated", "Failed to update project", func(tok string) (*backend.Project, error) {
		return s.api.UpdateProject(ctx, tok, id, in)
	})
}

func (s *Service) DeleteProject(ctx context.Context, id string) Result {
	return mutate(ctx, s, "delete-project", "Project deleted", "Failed to delete project", func(tok string) (any, error) {
		return nil, s.api.DeleteProject(ctx, tok, id)
	})
}

func (s *Service) ListSkills(ctx context.Context) Result {
	return read(ctx, s, "list-skills", "Failed to load skills", func(string) ([]backend.Skill, error) {
		return s.api.ListSkills(ctx)
	})
}

func (s *Service) ListCategories(ctx context.Context) Result {
	return read(ctx, s, "list-categories", "Failed to load categories", func(string) ([]backend.Category, error) {
		return s.api.ListCategories(ctx)
	})
}

func (s *Service) ListTags(ctx context.Context) Result {
	return read(ctx, s, "list-tags", "Failed to load tags", func(string) ([]backend.Tag, error) {
		return s.api.ListTags(ctx)
	})
}
