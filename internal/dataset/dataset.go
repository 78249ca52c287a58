// Package dataset reads and writes a user's plays, games and collection as a
// single JSON document, optionally zstd-compressed.
//
// Plays are stored as an object keyed by date. JSON objects carry no order in
// encoding/json, so the document is walked with gjson and built with sjson to
// keep the date order of the play log across a round trip. Numeric fields are
// read leniently: both 3 and "3" decode to 3, matching older exports.
package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/pable/go-bgg-stats/internal/model"
)

// Dataset is everything stored for one BGG user.
type Dataset struct {
	User       string
	ExportedAt time.Time
	Plays      model.PlayLog
	Games      []model.Game
	Collection []model.CollectionEntry
}

// Encode renders ds as a JSON document.
func Encode(ds *Dataset) ([]byte, error) {
	doc := []byte(`{}`)
	var err error
	if doc, err = sjson.SetBytes(doc, "user", ds.User); err != nil {
		return nil, err
	}
	if !ds.ExportedAt.IsZero() {
		if doc, err = sjson.SetBytes(doc, "exportedAt", ds.ExportedAt.UTC().Format(time.RFC3339)); err != nil {
			return nil, err
		}
	}
	plays, err := EncodePlays(ds.Plays)
	if err != nil {
		return nil, err
	}
	if doc, err = sjson.SetRawBytes(doc, "plays", plays); err != nil {
		return nil, err
	}
	games := ds.Games
	if games == nil {
		games = []model.Game{}
	}
	if doc, err = sjson.SetBytes(doc, "games", games); err != nil {
		return nil, fmt.Errorf("encode games: %w", err)
	}
	coll := ds.Collection
	if coll == nil {
		coll = []model.CollectionEntry{}
	}
	if doc, err = sjson.SetBytes(doc, "collection", coll); err != nil {
		return nil, fmt.Errorf("encode collection: %w", err)
	}
	return doc, nil
}

// EncodePlays renders log as a JSON object keyed by date, in log order.
func EncodePlays(log model.PlayLog) ([]byte, error) {
	doc := []byte(`{}`)
	for _, day := range log {
		raw, err := json.Marshal(day.Plays)
		if err != nil {
			return nil, fmt.Errorf("encode plays of %s: %w", day.Date, err)
		}
		if doc, err = sjson.SetRawBytes(doc, escapeKey(day.Date), raw); err != nil {
			return nil, fmt.Errorf("set plays of %s: %w", day.Date, err)
		}
	}
	return doc, nil
}

// Decode parses a dataset document. A bare plays object (date -> plays) is
// accepted too; user then comes from the caller.
func Decode(data []byte, user string) (*Dataset, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("decode dataset: invalid JSON")
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("decode dataset: top level must be an object")
	}

	ds := &Dataset{User: user}
	plays := root.Get("plays")
	if !plays.Exists() {
		// Bare plays file.
		ds.Plays = DecodePlays(root)
		return ds, nil
	}
	if u := root.Get("user").String(); u != "" {
		ds.User = u
	}
	if at := root.Get("exportedAt").String(); at != "" {
		if t, err := time.Parse(time.RFC3339, at); err == nil {
			ds.ExportedAt = t
		}
	}
	ds.Plays = DecodePlays(plays)
	root.Get("games").ForEach(func(_, v gjson.Result) bool {
		ds.Games = append(ds.Games, decodeGame(v))
		return true
	})
	root.Get("collection").ForEach(func(_, v gjson.Result) bool {
		ds.Collection = append(ds.Collection, decodeCollectionEntry(v))
		return true
	})
	return ds, nil
}

// DecodePlays walks a date-keyed plays object in document order.
func DecodePlays(obj gjson.Result) model.PlayLog {
	var log model.PlayLog
	obj.ForEach(func(date, plays gjson.Result) bool {
		day := model.DayPlays{Date: date.String()}
		plays.ForEach(func(_, p gjson.Result) bool {
			play := decodePlay(p)
			if play.Date == "" {
				play.Date = day.Date
			}
			day.Plays = append(day.Plays, play)
			return true
		})
		log = append(log, day)
		return true
	})
	return log
}

func decodePlay(v gjson.Result) model.Play {
	p := model.Play{
		ID:         int(v.Get("id").Int()),
		Name:       v.Get("name").String(),
		GameID:     int(v.Get("gameId").Int()),
		Quantity:   int(v.Get("quantity").Int()),
		Date:       v.Get("date").String(),
		Length:     int(v.Get("length").Int()),
		Location:   v.Get("location").String(),
		Incomplete: v.Get("incomplete").Bool(),
		New:        v.Get("new").Bool(),
	}
	if p.Quantity < 1 {
		p.Quantity = 1
	}
	v.Get("players").ForEach(func(_, pl gjson.Result) bool {
		p.Players = append(p.Players, model.Player{
			Name:     pl.Get("name").String(),
			UserName: pl.Get("userName").String(),
			Won:      pl.Get("won").Bool(),
			New:      pl.Get("new").Bool(),
		})
		return true
	})
	return p
}

func decodeGame(v gjson.Result) model.Game {
	return model.Game{
		GameID:     int(v.Get("gameId").Int()),
		Name:       v.Get("name").String(),
		Published:  int(v.Get("published").Int()),
		Weight:     v.Get("weight").Float(),
		Mechanisms: stringList(v.Get("mechanisms")),
		Categories: stringList(v.Get("categories")),
		Families:   stringList(v.Get("families")),
		Designers:  stringList(v.Get("designers")),
		Thumbnail:  v.Get("thumbnail").String(),
	}
}

func decodeCollectionEntry(v gjson.Result) model.CollectionEntry {
	st := v.Get("status")
	return model.CollectionEntry{
		GameID: int(v.Get("gameId").Int()),
		Name:   v.Get("name").String(),
		Status: model.CollectionStatus{
			Own:        st.Get("own").Bool(),
			PrevOwned:  st.Get("prevowned").Bool(),
			ForTrade:   st.Get("fortrade").Bool(),
			Want:       st.Get("want").Bool(),
			WantToPlay: st.Get("wanttoplay").Bool(),
			WantToBuy:  st.Get("wanttobuy").Bool(),
			Wishlist:   st.Get("wishlist").Bool(),
			Preordered: st.Get("preordered").Bool(),
		},
		Rating:    v.Get("rating").Float(),
		Plays:     int(v.Get("plays").Int()),
		Thumbnail: v.Get("thumbnail").String(),
	}
}

func stringList(v gjson.Result) []string {
	var out []string
	v.ForEach(func(_, s gjson.Result) bool {
		out = append(out, s.String())
		return true
	})
	return out
}

// escapeKey escapes sjson path syntax in an object key.
func escapeKey(k string) string {
	r := strings.NewReplacer(".", `\.`, "*", `\*`, "?", `\?`, "|", `\|`, "#", `\#`, "@", `\@`)
	return r.Replace(k)
}

// ---- files ----

// WriteFile writes ds to path; a ".zst" suffix selects zstd compression.
func WriteFile(path string, ds *Dataset) error {
	data, err := Encode(ds)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := write(f, data, isCompressed(path)); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// ReadFile reads a dataset written by WriteFile, or a bare plays file.
func ReadFile(path, user string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	data, err := read(f, isCompressed(path))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Decode(data, user)
}

func isCompressed(path string) bool {
	return strings.HasSuffix(path, ".zst")
}

func write(w io.Writer, data []byte, compress bool) error {
	if !compress {
		_, err := w.Write(data)
		return err
	}
	enc, err := zstd.NewWriter(w)
	if err != nil {
		return err
	}
	if _, err := io.Copy(enc, bytes.NewReader(data)); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

func read(r io.Reader, compressed bool) ([]byte, error) {
	if !compressed {
		return io.ReadAll(r)
	}
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return io.ReadAll(dec)
}
