package bgg

import (
	"strconv"
	"strings"

	"github.com/pable/go-bgg-stats/internal/model"
)

// UnknownGuest names a participant logged without name or account.
const UnknownGuest = "Unknown guest"

// ---- /plays ----

type playsDTO struct {
	Username string    `xml:"username,attr"`
	Total    int       `xml:"total,attr"`
	Page     int       `xml:"page,attr"`
	Plays    []playDTO `xml:"play"`
}

type playDTO struct {
	ID         int    `xml:"id,attr"`
	Date       string `xml:"date,attr"`
	Quantity   string `xml:"quantity,attr"`
	Length     string `xml:"length,attr"`
	Incomplete string `xml:"incomplete,attr"`
	Location   string `xml:"location,attr"`
	Item       struct {
		Name     string `xml:"name,attr"`
		ObjectID int    `xml:"objectid,attr"`
	} `xml:"item"`
	Players []playerDTO `xml:"players>player"`
}

type playerDTO struct {
	Username string `xml:"username,attr"`
	Name     string `xml:"name,attr"`
	New      string `xml:"new,attr"`
	Win      string `xml:"win,attr"`
}

// toPlay normalizes a play logged by owner.
func (p playDTO) toPlay(owner string) model.Play {
	play := model.Play{
		ID:         p.ID,
		Name:       p.Item.Name,
		GameID:     p.Item.ObjectID,
		Quantity:   atoiOr(p.Quantity, 1),
		Date:       p.Date,
		Length:     atoiOr(p.Length, 0),
		Location:   p.Location,
		Incomplete: p.Incomplete != "" && p.Incomplete != "0",
	}
	if play.Quantity < 1 {
		play.Quantity = 1
	}
	for _, dto := range p.Players {
		pl := dto.toPlayer(owner)
		if pl.UserName == owner && pl.New {
			play.New = true
		}
		play.Players = append(play.Players, pl)
	}
	return play
}

func (p playerDTO) toPlayer(owner string) model.Player {
	name := p.Name
	if name == "" {
		switch {
		case p.Username == owner:
			name = owner
		case p.Username != "":
			name = p.Username
		default:
			name = UnknownGuest
		}
	}
	return model.Player{
		Name:     name,
		UserName: p.Username,
		Won:      p.Win != "" && p.Win != "0",
		New:      p.New == "1",
	}
}

// ---- /thing ----

type thingsDTO struct {
	Items []thingDTO `xml:"item"`
}

type valueAttr struct {
	Value string `xml:"value,attr"`
}

type thingDTO struct {
	ID        int    `xml:"id,attr"`
	Type      string `xml:"type,attr"`
	Thumbnail string `xml:"thumbnail"`
	Names     []struct {
		Type  string `xml:"type,attr"`
		Value string `xml:"value,attr"`
	} `xml:"name"`
	YearPublished valueAttr `xml:"yearpublished"`
	Links         []struct {
		Type  string `xml:"type,attr"`
		Value string `xml:"value,attr"`
	} `xml:"link"`
	AverageWeight valueAttr `xml:"statistics>ratings>averageweight"`
}

func (t thingDTO) toGame() model.Game {
	g := model.Game{
		GameID:    t.ID,
		Published: atoiOr(t.YearPublished.Value, 0),
		Weight:    atofOr(t.AverageWeight.Value, 0),
		Thumbnail: strings.TrimSpace(t.Thumbnail),
	}
	for _, n := range t.Names {
		if n.Type == "primary" {
			g.Name = n.Value
			break
		}
	}
	for _, l := range t.Links {
		switch l.Type {
		case "boardgamemechanic":
			g.Mechanisms = append(g.Mechanisms, l.Value)
		case "boardgamecategory":
			g.Categories = append(g.Categories, l.Value)
		case "boardgamefamily":
			g.Families = append(g.Families, l.Value)
		case "boardgamedesigner":
			g.Designers = append(g.Designers, l.Value)
		}
	}
	return g
}

// ---- /collection ----

type collectionDTO struct {
	TotalItems int                 `xml:"totalitems,attr"`
	Items      []collectionItemDTO `xml:"item"`
}

type collectionItemDTO struct {
	ObjectID  int    `xml:"objectid,attr"`
	Name      string `xml:"name"`
	Thumbnail string `xml:"thumbnail"`
	NumPlays  int    `xml:"numplays"`
	Status    struct {
		Own        string `xml:"own,attr"`
		PrevOwned  string `xml:"prevowned,attr"`
		ForTrade   string `xml:"fortrade,attr"`
		Want       string `xml:"want,attr"`
		WantToPlay string `xml:"wanttoplay,attr"`
		WantToBuy  string `xml:"wanttobuy,attr"`
		Wishlist   string `xml:"wishlist,attr"`
		Preordered string `xml:"preordered,attr"`
	} `xml:"status"`
	Rating valueAttr `xml:"stats>rating"`
}

func (c collectionItemDTO) toEntry() model.CollectionEntry {
	st := c.Status
	return model.CollectionEntry{
		GameID: c.ObjectID,
		Name:   c.Name,
		Status: model.CollectionStatus{
			Own:        st.Own == "1",
			PrevOwned:  st.PrevOwned == "1",
			ForTrade:   st.ForTrade == "1",
			Want:       st.Want == "1",
			WantToPlay: st.WantToPlay == "1",
			WantToBuy:  st.WantToBuy == "1",
			Wishlist:   st.Wishlist == "1",
			Preordered: st.Preordered == "1",
		},
		Rating:    atofOr(c.Rating.Value, 0), // "N/A" when unrated
		Plays:     c.NumPlays,
		Thumbnail: strings.TrimSpace(c.Thumbnail),
	}
}

func atoiOr(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}

func atofOr(s string, def float64) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return def
	}
	return f
}
