package factory

import (
	"fmt"
	"math/rand"

	"github.com/LuminationDev/leadme-classroom/src/leadme/entity"
)

// Tab returns a tab with a random index and the given id.
func Tab(id string) entity.Tab {
	return entity.Tab{
		ID:      id,
		Index:   rand.Intn(20),
		Name:    fmt.Sprintf("Tab %v", id),
		URL:     fmt.Sprintf("https://example.com/%v", id),
		Favicon: "https://example.com/favicon.ico",
	}
}
