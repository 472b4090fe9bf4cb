package api

import "context"

func (c *Client) Login(ctx context.Context, email, password string) AuthResult {
	var res AuthResult
	c.request(ctx, "/api/user/login", post(map[string]any{
		"email":    email,
		"password": password,
	}), &res)
	return res
}

func (c *Client) Register(ctx context.Context, name, email, password string) AuthResult {
	var res AuthResult
	c.request(ctx, "/api/user/register", post(map[string]any{
		"name":     name,
		"email":    email,
		"password": password,
	}), &res)
	return res
}

// Profile fetches the profile of the stored user.
func (c *Client) Profile(ctx context.Context) ProfileResult {
	return c.ProfileByID(ctx, c.profileID(ctx))
}

func (c *Client) ProfileByID(ctx context.Context, userID string) ProfileResult {
	var res ProfileResult
	c.request(ctx, "/api/user/profile", post(map[string]any{"userId": userID}), &res)
	return res
}

type ProfileUpdate struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

func (c *Client) UpdateProfile(ctx context.Context, u ProfileUpdate) ProfileResult {
	body := map[string]any{"userId": c.profileID(ctx)}
	if u.Name != "" {
		body["name"] = u.Name
	}
	if u.Email != "" {
		body["email"] = u.Email
	}
	if u.Phone != "" {
		body["phone"] = u.Phone
	}

	var res ProfileResult
	c.request(ctx, "/api/user/update-profile", post(body), &res)
	return res
}
