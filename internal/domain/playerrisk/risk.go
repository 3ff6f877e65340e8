package playerrisk

import (
	"strings"

	"github.com/fplmate/fpl-companion/internal/domain/roster"
)

// Badge classifies a player's availability for the next round.
type Badge string

const (
	BadgeInjured   Badge = "injured"
	BadgeSuspended Badge = "suspended"
	BadgeDoubtful  Badge = "doubtful"
	BadgeFormDip   Badge = "form_dip"
	BadgeOK        Badge = "ok"
)

// Info is the per-player availability summary rendered into alert emails.
type Info struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Team  string `json:"team"`
	Badge Badge  `json:"badge"`
	News  string `json:"news"`
}

// Form this far below points-per-game counts as a dip.
const formDipThreshold = -1.5

// Assess determines a player's risk badge from FPL status flags, playing
// chance, news keywords, and recent form.
// Priority: suspended > injured > doubtful > form_dip > ok.
func Assess(p roster.RosterPlayer) Info {
	return Info{
		ID:    p.ID,
		Name:  p.Name,
		Team:  p.Team,
		Badge: evaluateBadge(p),
		News:  p.News,
	}
}

func evaluateBadge(p roster.RosterPlayer) Badge {
	switch strings.ToLower(p.Status) {
	case "s", "sus":
		return BadgeSuspended
	case "i", "inj":
		return BadgeInjured
	}

	if p.ChanceOfPlayingNextRound != nil {
		chance := *p.ChanceOfPlayingNextRound
		if chance > 0 && chance < 75 {
			return BadgeDoubtful
		}
	}

	news := strings.ToLower(p.News)
	if strings.Contains(news, "suspended") || strings.Contains(news, "ban") {
		return BadgeSuspended
	}
	if strings.Contains(news, "injury") || strings.Contains(news, "hamstring") || strings.Contains(news, "knee") {
		return BadgeInjured
	}

	if p.Form-p.PointsPerGame < formDipThreshold {
		return BadgeFormDip
	}

	return BadgeOK
}
