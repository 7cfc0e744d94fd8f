package sportsdb

import (
	"math"
	"strconv"
	"strings"

	"github.com/fortuna/acbscout/internal/models"
)

// ProcessClubs maps API teams onto Club records.
func ProcessClubs(clubs []Raw) []models.Club {
	out := make([]models.Club, 0, len(clubs))
	for _, club := range clubs {
		out = append(out, models.Club{
			ID:              extractString(club, "idTeam"),
			Name:            extractString(club, "strTeam"),
			ShortName:       optString(club, "strTeamShort"),
			Founded:         optString(club, "intFormedYear"),
			Stadium:         optString(club, "strStadium"),
			StadiumCapacity: optString(club, "intStadiumCapacity"),
			Location:        optString(club, "strLocation"),
			Country:         optString(club, "strCountry"),
			BadgeURL:        optString(club, "strBadge"),
			LogoURL:         optString(club, "strLogo"),
			Website:         optString(club, "strWebsite"),
			Description:     optString(club, "strDescriptionEN"),
		})
	}
	return out
}

// ProcessPlayers maps API players onto Player records, converting heights.
func ProcessPlayers(players []RawPlayer) []models.Player {
	out := make([]models.Player, 0, len(players))
	for _, rp := range players {
		p := rp.Fields
		heightStr := extractString(p, "strHeight")
		cm := HeightCM(heightStr)
		feet, inches := FeetInches(cm)

		var birthDate *string
		if born := extractString(p, "dateBorn"); born != "" {
			birthDate = models.Ptr(truncate(born, 10))
		}

		headshot := optString(p, "strThumb")
		if headshot == nil {
			headshot = optString(p, "strCutout")
		}

		out = append(out, models.Player{
			Code:          extractString(p, "idPlayer"),
			Name:          extractString(p, "strPlayer"),
			Nationality:   optString(p, "strNationality"),
			BirthDate:     birthDate,
			BirthLocation: optString(p, "strBirthLocation"),
			HeightStr:     heightStr,
			HeightCM:      cm,
			HeightFeet:    feet,
			HeightInches:  inches,
			Weight:        optString(p, "strWeight"),
			Position:      optString(p, "strPosition"),
			TeamCode:      rp.TeamID,
			TeamName:      rp.TeamName,
			Jersey:        optString(p, "strNumber"),
			HeadshotURL:   headshot,
			Description:   optString(p, "strDescriptionEN"),
			Instagram:     optString(p, "strInstagram"),
			Twitter:       optString(p, "strTwitter"),
		})
	}
	return out
}

// ProcessSchedule maps API events onto Game records. A game is played when
// both scores parse.
func ProcessSchedule(events []Raw) []models.Game {
	out := make([]models.Game, 0, len(events))
	for _, e := range events {
		home := score(e["intHomeScore"])
		away := score(e["intAwayScore"])

		out = append(out, models.Game{
			GameID:    extractString(e, "idEvent"),
			Date:      extractString(e, "dateEvent"),
			Time:      optString(e, "strTime"),
			Round:     optString(e, "intRound"),
			HomeTeam:  extractString(e, "strHomeTeam"),
			AwayTeam:  extractString(e, "strAwayTeam"),
			HomeScore: home,
			AwayScore: away,
			Played:    home != nil && away != nil,
			Venue:     optString(e, "strVenue"),
			City:      optString(e, "strCity"),
			Season:    optString(e, "strSeason"),
			Status:    optString(e, "strStatus"),
			Result:    optString(e, "strResult"),
		})
	}
	return out
}

// HeightCM parses "2.01 m" or "6 ft 7 in" into whole centimetres,
// truncating. Anything else is nil.
func HeightCM(height string) *int {
	lower := strings.ToLower(height)
	switch {
	case lower == "":
		return nil
	case strings.Contains(lower, "m"):
		metres, err := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(lower, "m", "")), 64)
		if err != nil {
			return nil
		}
		cm := int(metres * 100)
		return &cm
	case strings.Contains(lower, "ft"):
		parts := strings.Fields(strings.ReplaceAll(strings.ReplaceAll(lower, "ft", ""), "in", ""))
		if len(parts) < 2 {
			return nil
		}
		feet, err := strconv.Atoi(parts[0])
		if err != nil {
			return nil
		}
		inches, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil
		}
		cm := int(float64(feet*12+inches) * 2.54)
		return &cm
	}
	return nil
}

// FeetInches converts centimetres to feet and rounded inches, carrying 12
// inches into a foot. Nil or zero input gives nils.
func FeetInches(cm *int) (*int, *int) {
	if cm == nil || *cm == 0 {
		return nil, nil
	}
	total := float64(*cm) / 2.54
	feet := int(math.Floor(total / 12))
	inches := int(math.RoundToEven(math.Mod(total, 12)))
	if inches == 12 {
		feet++
		inches = 0
	}
	return &feet, &inches
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// score parses an API score. Empty values give nil.
func score(v interface{}) *int {
	switch val := v.(type) {
	case float64:
		n := int(val)
		return &n
	case string:
		if val == "" {
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return nil
		}
		return &n
	}
	return nil
}

func extractString(m Raw, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	}
	return ""
}

// optString is extractString with absent, null and empty values as nil.
func optString(m Raw, key string) *string {
	s := extractString(m, key)
	if s == "" {
		return nil
	}
	return &s
}

func fallbackString(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func extractObjects(m Raw, key string) []Raw {
	arr, ok := m[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]Raw, 0, len(arr))
	for _, item := range arr {
		if obj, ok := item.(map[string]interface{}); ok {
			out = append(out, obj)
		}
	}
	return out
}
