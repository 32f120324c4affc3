package model

import (
	"context"
	"fmt"

	"github.com/instrumentgraph/layoutdb/pkg/cache"
	"github.com/instrumentgraph/layoutdb/pkg/gateway"
)

// User is an account identified by a unique username, belonging to zero or
// more UserGroups.
type User struct {
	Element
	Uname       string
	PwdHash     string
	Institution string
	Groups      []*UserGroup
}

func NewUser(uname, pwdHash, institution string, groups []*UserGroup) *User {
	return &User{Element: newElement(), Uname: uname, PwdHash: pwdHash, Institution: institution, Groups: groups}
}

func UserFromID(ctx context.Context, gw gateway.Gateway, c *cache.Cache, id int64) (*User, error) {
	if cached, ok := c.Get(id); ok {
		return cached.(*User), nil
	}
	v, err := gw.GetVertex(ctx, id)
	if err != nil {
		return nil, notFoundErr("User", err)
	}

	u := &User{
		Element:     elementFromAttrs(v.Attrs),
		Uname:       toStringAttr(v.Attrs["uname"]),
		PwdHash:     toStringAttr(v.Attrs["pwd_hash"]),
		Institution: toStringAttr(v.Attrs["institution"]),
	}
	u.id = id

	for _, e := range v.OutEdges {
		if e.Category != gateway.CategoryRelUserGroup {
			continue
		}
		g, err := UserGroupFromID(ctx, gw, c, e.OtherID)
		if err != nil {
			return nil, err
		}
		u.Groups = append(u.Groups, g)
	}

	cached := c.GetOrCreate(id, func() any { return u })
	return cached.(*User), nil
}

func UserFromUname(ctx context.Context, gw gateway.Gateway, c *cache.Cache, uname string) (*User, error) {
	query := "// find_vertex_by_attr\n" +
		"MATCH (n:Vertex) WHERE n.category = $category AND n.active = true AND n.uname = $value RETURN id(n) AS id"
	rows, err := gw.Run(ctx, query, map[string]any{
		"category": gateway.CategoryUser,
		"key":      "uname",
		"value":    uname,
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrUserNotAdded
	}
	id, _ := toInt64Row(rows[0]["id"])
	return UserFromID(ctx, gw, c, id)
}

func (u *User) AddedToDB(ctx context.Context, gw gateway.Gateway) (bool, error) {
	if u.Element.AddedToDB() {
		return true, nil
	}
	query := "// find_vertex_by_attr\n" +
		"MATCH (n:Vertex) WHERE n.category = $category AND n.active = true AND n.uname = $value RETURN id(n) AS id"
	rows, err := gw.Run(ctx, query, map[string]any{
		"category": gateway.CategoryUser,
		"key":      "uname",
		"value":    u.Uname,
	})
	if err != nil {
		return false, err
	}
	return len(rows) > 0, nil
}

// Add persists the User and its rel_user_group edges.
func (u *User) Add(ctx context.Context, gw gateway.Gateway, c *cache.Cache) error {
	added, err := u.AddedToDB(ctx, gw)
	if err != nil {
		return err
	}
	if added {
		return fmt.Errorf("User %q: %w", u.Uname, ErrVertexAlreadyAdded)
	}

	now := nowUnix()
	attrs := map[string]any{
		"category":    gateway.CategoryUser,
		"uname":       u.Uname,
		"pwd_hash":    u.PwdHash,
		"institution": u.Institution,
	}
	for k, v := range lifecycleAttrsAt(now) {
		attrs[k] = v
	}

	id, err := gw.AddVertex(ctx, gateway.CategoryUser, attrs)
	if err != nil {
		return err
	}

	for _, g := range u.Groups {
		if _, err := gw.AddEdge(ctx, gateway.CategoryRelUserGroup, id, g.ID(), lifecycleAttrsAt(now)); err != nil {
			return err
		}
	}

	u.markAdded(id, now)
	c.Set(id, u)
	return nil
}

func (u *User) Disable(ctx context.Context, gw gateway.Gateway, disableTime int64) error {
	if !u.Element.AddedToDB() {
		return ErrUserNotAdded
	}
	if err := disableVertexAndIncidentEdges(ctx, gw, u.id, disableTime); err != nil {
		return err
	}
	u.markDisabled(disableTime)
	return nil
}
