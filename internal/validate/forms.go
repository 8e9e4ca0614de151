package validate

var SignIn = MustCompile("signin", `{
	"type": "object",
	"properties": {
		"email":    {"type": "string", "format": "email"},
		"password": {"type": "string", "minLength": 1}
	}
}`, map[string]string{
	"email":    "Please enter a valid email address",
	"password": "Password is required",
})

var SignUp = MustCompile("signup", `{
	"type": "object",
	"properties": {
		"name":     {"type": "string", "minLength": 2, "maxLength": 50},
		"username": {"type": "string", "pattern": "^[a-zA-Z0-9_]{3,30}$"},
		"email":    {"type": "string", "format": "email"},
		"password": {"type": "string", "minLength": 8, "maxLength": 128}
	}
}`, map[string]string{
	"name":     "Name must be between 2 and 50 characters",
	"username": "Username must be 3-30 letters, numbers or underscores",
	"email":    "Please enter a valid email address",
	"password": "Password must be at least 8 characters",
})

var ResetRequest = MustCompile("reset-request", `{
	"type": "object",
	"properties": {
		"email": {"type": "string", "format": "email"}
	}
}`, map[string]string{
	"email": "Please enter a valid email address",
})

var ResetPassword = MustCompile("reset-password", `{
	"type": "object",
	"properties": {
		"token":           {"type": "string", "minLength": 1},
		"password":        {"type": "string", "minLength": 8, "maxLength": 128},
		"confirmPassword": {"type": "string", "minLength": 1}
	}
}`, map[string]string{
	"token":           "Reset link is invalid or incomplete",
	"password":        "Password must be at least 8 characters",
	"confirmPassword": "Please confirm your password",
})

var OTP = MustCompile("otp", `{
	"type": "object",
	"properties": {
		"otp": {"type": "string", "pattern": "^[0-9]{6}$"}
	}
}`, map[string]string{
	"otp": "Enter the 6-digit code from your email",
})

var Post = MustCompile("post", `{
	"type": "object",
	"properties": {
		"title":   {"type": "string", "minLength": 3, "maxLength": 150},
		"content": {"type": "string", "minLength": 1, "maxLength": 10000},
		"tags":    {
			"type": ["array", "null"],
			"maxItems": 5,
			"items": {"type": "string", "pattern": "^[a-z0-9][a-z0-9-]{0,29}$"}
		}
	}
}`, map[string]string{
	"title":   "Title must be between 3 and 150 characters",
	"content": "Content is required",
	"tags":    "Use up to 5 lowercase tags",
})

var Comment = MustCompile("comment", `{
	"type": "object",
	"properties": {
		"content": {"type": "string", "minLength": 1, "maxLength": 2000}
	}
}`, map[string]string{
	"content": "Comment must be between 1 and 2000 characters",
})

var Profile = MustCompile("profile", `{
	"type": "object",
	"properties": {
		"name":     {"type": "string", "minLength": 2, "maxLength": 50},
		"bio":      {"type": "string", "maxLength": 500},
		"location": {"type": "string", "maxLength": 100},
		"website":  {"anyOf": [{"const": ""}, {"type": "string", "format": "uri"}]},
		"image":    {"anyOf": [{"const": ""}, {"type": "string", "format": "uri"}]},
		"skills":   {"type": ["array", "null"], "maxItems": 20, "items": {"type": "string"}}
	}
}`, map[string]string{
	"name":    "Name must be between 2 and 50 characters",
	"bio":     "Bio must be at most 500 characters",
	"website": "Website must be a valid URL",
	"image":   "Image must be a valid URL",
	"skills":  "Pick at most 20 skills",
})

var Project = MustCompile("project", `{
	"type": "object",
	"properties": {
		"title":       {"type": "string", "minLength": 3, "maxLength": 100},
		"description": {"type": "string", "minLength": 10, "maxLength": 5000},
		"repoUrl":     {"anyOf": [{"const": ""}, {"type": "string", "format": "uri"}]},
		"liveUrl":     {"anyOf": [{"const": ""}, {"type": "string", "format": "uri"}]},
		"image":       {"anyOf": [{"const": ""}, {"type": "string", "format": "uri"}]},
		"skills":      {"type": ["array", "null"], "items": {"type": "string"}},
		"category":    {"type": "string", "minLength": 1}
	}
}`, map[string]string{
	"title":       "Title must be between 3 and 100 characters",
	"description": "Description must be at least 10 characters",
	"repoUrl":     "Repository must be a valid URL",
	"liveUrl":     "Live URL must be a valid URL",
	"image":       "Image must be a valid URL",
	"category":    "Pick a category",
})
