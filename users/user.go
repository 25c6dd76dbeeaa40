package users

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// User is one suggestion candidate.
type User struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	UserName string `json:"userName"`
}

// listSchema is the minimum shape a users listing must have. Extra fields
// are allowed; only name is needed to match suggestions.
const listSchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["name"],
    "properties": {
      "id":       {"type": "integer"},
      "name":     {"type": "string"},
      "userName": {"type": "string"},
      "username": {"type": "string"}
    }
  }
}`

var schema = mustSchema(listSchema)

func mustSchema(s string) *gojsonschema.Schema {
	sc, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(s))
	if err != nil {
		panic(fmt.Sprintf("users: invalid list schema: %v", err))
	}
	return sc
}

type rawUser struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	UserName string `json:"userName"`
	Username string `json:"username"`
}

// Normalize validates body as a users listing and converts it. The
// userName field falls back to username.
func Normalize(body []byte) ([]User, error) {
	if !json.Valid(body) {
		return nil, newParseError("body is not valid JSON")
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return nil, newParseError(err.Error())
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, newParseError(strings.Join(msgs, "; "))
	}

	var raw []rawUser
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, newParseError(err.Error())
	}

	out := make([]User, len(raw))
	for i, r := range raw {
		out[i] = User{ID: r.ID, Name: r.Name, UserName: r.UserName}
		if out[i].UserName == "" {
			out[i].UserName = r.Username
		}
	}
	return out, nil
}

// Names returns the name of each user, in order.
func Names(list []User) []string {
	names := make([]string, len(list))
	for i, u := range list {
		names[i] = u.Name
	}
	return names
}
