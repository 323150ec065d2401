package live

import "github.com/grims-squad/clan-backend/models"

// LeaderboardUpdated satisfies the services.LeaderboardNotifier interface.
func (h *Hub) LeaderboardUpdated(players []models.Player) {
	h.Publish("LEADERBOARD_UPDATED", players)
}
