package domain

type User struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// SeedUsers returns the records the registry starts with.
func SeedUsers() []User {
	return []User{
		{ID: 1, Name: "Alice"},
		{ID: 2, Name: "Bob"},
	}
}

// NextUserID returns one past the largest id in users, or 1 when users is empty.
func NextUserID(users []User) int64 {
	var max int64
	for _, u := range users {
		if u.ID > max {
			max = u.ID
		}
	}
	return max + 1
}
