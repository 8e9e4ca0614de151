package backend

import (
	"context"
	"net/http"
)

func (c *Client) ListProjects(ctx context.Context, token string, q ProjectQuery) (*Page[Project], error) {
	v := pageValues(q.PageQuery)
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.Skill != "" {
		v.Set("skill", q.Skill)
	}
	if q.Owner != "" {
		v.Set("owner", q.Owner)
	}
	var out Page[Project]
	if err := c.do(ctx, http.MethodGet, withQuery("/projects", v), token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetProject(ctx context.Context, token, id string) (*Project, error) {
	var out Project
	if err := c.do(ctx, http.MethodGet, "/projects/"+seg(id), token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateProject(ctx context.Context, token string, in ProjectInput) (*Project, error) {
	var out Project
	if err := c.do(ctx, http.MethodPost, "/projects", token, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProject(ctx context.Context, token, id string, in ProjectInput) (*Project, error) {
	var out Project
	if err := c.do(ctx, http.MethodPut, "/projects/"+seg(id), token, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteProject(ctx context.Context, token, id string) error {
	return c.do(ctx, http.MethodDelete, "/projects/"+seg(id), token, nil, nil)
}

func (c *Client) ListSkills(ctx context.Context) ([]Skill, error) {
	var out []Skill
	err := c.do(ctx, http.MethodGet, "/skills", "", nil, &out)
	return out, err
}

func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	var out []Category
	err := c.do(ctx, http.MethodGet, "/categories", "", nil, &out)
	return out, err
}

func (c *Client) ListTags(ctx context.Context) ([]Tag, error) {
	var out []Tag
	err := c.do(ctx, http.MethodGet, "/tags", "", nil, &out)
	return out, err
}
