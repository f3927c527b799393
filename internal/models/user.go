package models

// UserDataCollection is the document store collection holding one
// document per account, keyed by the auth provider's user id.
const UserDataCollection = "userData"

// User is a signed-in account's profile together with its todo list.
type User struct {
	UID            string     `json:"uid"`
	Email          string     `json:"email"`
	DisplayName    string     `json:"displayName"`
	PhotoURL       string     `json:"photoURL"`
	LineUserID     string     `json:"lineUserId,omitempty"`
	TodoCategories []Category `json:"todoCategories"`
	Todos          []Todo     `json:"todos"`
}

// DefaultUser is the shape provisioned for an account with no document.
func DefaultUser(uid, email string) *User {
	return &User{
		UID:            uid,
		Email:          email,
		TodoCategories: []Category{},
		Todos:          []Todo{},
	}
}

// DefaultUserFields is the document written for a first sign-in.
func DefaultUserFields(email string) map[string]any {
	return map[string]any{
		"email":          email,
		"todoCategories": []any{},
		"todos":          []any{},
	}
}

// Clone returns a deep copy so that callers can mutate a snapshot
// without touching the one held in session state.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.TodoCategories = append([]Category{}, u.TodoCategories...)
	c.Todos = make([]Todo, len(u.Todos))
	for i, t := range u.Todos {
		if t.Category != nil {
			cat := *t.Category
			t.Category = &cat
		}
		c.Todos[i] = t
	}
	return &c
}

// FindTodo returns the index of the todo with the given id, or -1.
func (u *User) FindTodo(id string) int {
	for i := range u.Todos {
		if u.Todos[i].ID == id {
			return i
		}
	}
	return -1
}

// FindCategory returns the index of the category with the given key, or -1.
func (u *User) FindCategory(key string) int {
	for i := range u.TodoCategories {
		if u.TodoCategories[i].Key == key {
			return i
		}
	}
	return -1
}
