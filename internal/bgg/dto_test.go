package bgg

import (
	"encoding/xml"
	"testing"

	"github.com/stretchr/testify/assert"
)

const playsXML = `<?xml version="1.0" encoding="utf-8"?>
<plays username="owner" userid="42" total="2" page="1" termsofuse="https://boardgamegeek.com/xmlapi/termsofuse">
  <play id="1001" date="2024-03-01" quantity="2" length="90" incomplete="0" nowinstats="0" location="Home">
    <item name="Catan" objecttype="thing" objectid="13"><subtypes><subtype value="boardgame"/></subtypes></item>
    <players>
      <player username="owner" userid="42" name="" startposition="" color="" score="10" new="1" rating="0" win="1"/>
      <player username="friend" userid="43" name="" startposition="" color="" score="8" new="0" rating="0" win="0"/>
      <player username="" userid="0" name="" startposition="" color="" score="" new="0" rating="0" win="0"/>
      <player username="" userid="0" name="Carla" startposition="" color="" score="" new="0" rating="0" win="0"/>
    </players>
  </play>
  <play id="1002" date="2024-03-02" quantity="" length="abc" incomplete="1" nowinstats="0" location="">
    <item name="Azul" objecttype="thing" objectid="230802"/>
  </play>
</plays>`

func TestPlaysDTO_Parsing(t *testing.T) {
	var dto playsDTO
	err := xml.Unmarshal([]byte(playsXML), &dto)
	assert.NoError(t, err)
	assert.Equal(t, "owner", dto.Username)
	assert.Equal(t, 2, dto.Total)
	assert.Len(t, dto.Plays, 2)

	p := dto.Plays[0].toPlay("owner")
	assert.Equal(t, 1001, p.ID)
	assert.Equal(t, "Catan", p.Name)
	assert.Equal(t, 13, p.GameID)
	assert.Equal(t, 2, p.Quantity)
	assert.Equal(t, 90, p.Length)
	assert.Equal(t, "Home", p.Location)
	assert.False(t, p.Incomplete)
	assert.True(t, p.New, "owner flagged the play as new")

	assert.Len(t, p.Players, 4)
	assert.Equal(t, "owner", p.Players[0].Name)
	assert.True(t, p.Players[0].Won)
	assert.Equal(t, "friend", p.Players[1].Name)
	assert.False(t, p.Players[1].Won)
	assert.Equal(t, UnknownGuest, p.Players[2].Name)
	assert.Equal(t, "", p.Players[2].UserName)
	assert.Equal(t, "Carla", p.Players[3].Name)

	bad := dto.Plays[1].toPlay("owner")
	assert.Equal(t, 1, bad.Quantity)
	assert.Equal(t, 0, bad.Length)
	assert.True(t, bad.Incomplete)
	assert.Empty(t, bad.Players, "no synthetic owner for plays logged without players")
	assert.False(t, bad.New)
}

const thingXML = `<?xml version="1.0" encoding="utf-8"?>
<items termsofuse="https://boardgamegeek.com/xmlapi/termsofuse">
  <item type="boardgame" id="13">
    <thumbnail>
      https://cf.geekdo-images.com/catan_t.jpg
    </thumbnail>
    <name type="alternate" sortindex="1" value="Die Siedler von Catan"/>
    <name type="primary" sortindex="1" value="Catan"/>
    <yearpublished value="1995"/>
    <link type="boardgamecategory" id="1021" value="Economic"/>
    <link type="boardgamemechanic" id="2072" value="Dice Rolling"/>
    <link type="boardgamemechanic" id="2008" value="Trading"/>
    <link type="boardgamefamily" id="3" value="Catan"/>
    <link type="boardgamedesigner" id="11" value="Klaus Teuber"/>
    <link type="boardgamepublisher" id="37" value="KOSMOS"/>
    <statistics page="1">
      <ratings>
        <usersrated value="120000"/>
        <averageweight value="2.2958"/>
      </ratings>
    </statistics>
  </item>
</items>`

func TestThingDTO_Parsing(t *testing.T) {
	var dto thingsDTO
	err := xml.Unmarshal([]byte(thingXML), &dto)
	assert.NoError(t, err)
	assert.Len(t, dto.Items, 1)

	g := dto.Items[0].toGame()
	assert.Equal(t, 13, g.GameID)
	assert.Equal(t, "Catan", g.Name)
	assert.Equal(t, 1995, g.Published)
	assert.InDelta(t, 2.2958, g.Weight, 1e-9)
	assert.Equal(t, "https://cf.geekdo-images.com/catan_t.jpg", g.Thumbnail)
	assert.Equal(t, []string{"Dice Rolling", "Trading"}, g.Mechanisms)
	assert.Equal(t, []string{"Economic"}, g.Categories)
	assert.Equal(t, []string{"Catan"}, g.Families)
	assert.Equal(t, []string{"Klaus Teuber"}, g.Designers)
}

const collectionXML = `<?xml version="1.0" encoding="utf-8"?>
<items totalitems="2" termsofuse="https://boardgamegeek.com/xmlapi/termsofuse">
  <item objecttype="thing" objectid="13" subtype="boardgame" collid="1">
    <name sortindex="1">Catan</name>
    <thumbnail>https://cf.geekdo-images.com/catan_t.jpg</thumbnail>
    <stats minplayers="3" maxplayers="4"><rating value="7.5"><average value="7.1"/></rating></stats>
    <status own="1" prevowned="0" fortrade="0" want="0" wanttoplay="1" wanttobuy="0" wishlist="0" preordered="0" lastmodified="2020-01-01 10:00:00"/>
    <numplays>12</numplays>
  </item>
  <item objecttype="thing" objectid="230802" subtype="boardgame" collid="2">
    <name sortindex="1">Azul</name>
    <stats><rating value="N/A"/></stats>
    <status own="0" prevowned="1" fortrade="0" want="0" wanttoplay="0" wanttobuy="0" wishlist="1" wishlistpriority="3" preordered="0"/>
    <numplays>0</numplays>
  </item>
</items>`

func TestCollectionDTO_Parsing(t *testing.T) {
	var dto collectionDTO
	err := xml.Unmarshal([]byte(collectionXML), &dto)
	assert.NoError(t, err)
	assert.Equal(t, 2, dto.TotalItems)
	assert.Len(t, dto.Items, 2)

	catan := dto.Items[0].toEntry()
	assert.Equal(t, 13, catan.GameID)
	assert.Equal(t, "Catan", catan.Name)
	assert.True(t, catan.Status.Own)
	assert.True(t, catan.Status.WantToPlay)
	assert.False(t, catan.Status.PrevOwned)
	assert.Equal(t, 7.5, catan.Rating)
	assert.Equal(t, 12, catan.Plays)

	azul := dto.Items[1].toEntry()
	assert.Equal(t, 0.0, azul.Rating, "N/A rating maps to 0")
	assert.True(t, azul.Status.PrevOwned)
	assert.True(t, azul.Status.Wishlist)
	assert.Equal(t, "", azul.Thumbnail)
}
