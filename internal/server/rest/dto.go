package rest

import (
	"time"

	"github.com/dmitrijs2005/strengthsmap/internal/server/models"
)

type userDTO struct {
	ID      string  `json:"id"`
	Email   string  `json:"email"`
	Name    string  `json:"name"`
	Picture *string `json:"picture"`
}

func toUser(a *models.Account) userDTO {
	return userDTO{ID: a.ID, Email: a.Email, Name: a.Name, Picture: a.Picture}
}

type authResponse struct {
	Token string  `json:"token"`
	User  userDTO `json:"user"`
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type entryDTO struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

func toEntries(items []*models.PersonalEntry) []entryDTO {
	out := make([]entryDTO, 0, len(items))
	for _, e := range items {
		out = append(out, entryDTO{ID: e.ID, Content: e.Content, CreatedAt: e.CreatedAt})
	}
	return out
}

type saveEntriesRequest struct {
	Content string   `json:"content"`
	Items   []string `json:"items"`
}

type saveEntriesResponse struct {
	Added  []entryDTO `json:"added"`
	Notice string     `json:"notice,omitempty"`
}

type communityDTO struct {
	ID         string    `json:"id"`
	Category   string    `json:"category"`
	Capability string    `json:"capability"`
	CreatedAt  time.Time `json:"createdAt"`
}

func toCommunity(e *models.CommunityEntry) communityDTO {
	return communityDTO{ID: e.ID, Category: e.Category, Capability: e.Capability, CreatedAt: e.CreatedAt}
}

type submitRequest struct {
	Category   string `json:"category"`
	Capability string `json:"capability"`
}

type renameCapabilityRequest struct {
	Capability string `json:"capability"`
}

type renameCategoryRequest struct {
	OldCategory string `json:"oldCategory"`
	NewCategory string `json:"newCategory"`
}

type renameCategoryResponse struct {
	Category string `json:"category"`
	Moved    int    `json:"moved"`
	Removed  int    `json:"removed"`
	Merged   bool   `json:"merged"`
}
