package rest

import (
	"context"
	"net/http"
	"strings"

	"github.com/rocketscienceinc/stratego-backend/internal/entity"
)

const (
	headerPlayerID   = "X-Player-ID"
	headerPlayerName = "X-Player-Name"
)

type playerKey struct{}

// requirePlayer - reads the caller identity set by the authenticating proxy.
func requirePlayer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(headerPlayerID))
		if id == "" {
			http.Error(w, "player identity is required", http.StatusUnauthorized)
			return
		}

		player := entity.Player{
			ID:          id,
			DisplayName: strings.TrimSpace(r.Header.Get(headerPlayerName)),
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), playerKey{}, player)))
	})
}

func playerFrom(ctx context.Context) entity.Player {
	player, _ := ctx.Value(playerKey{}).(entity.Player)
	return player
}
