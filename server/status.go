package main

import (
	"database/sql"
	"log"
	"time"

	"mcportal/db"
	"mcportal/mcstatus"
	"mcportal/types"

	"github.com/gin-gonic/gin"
)

var (
	mcServerHost string
	mcServerPort uint16
)

func HandlePlayerCount(c *gin.Context) {
	st, err := mcstatus.Query(c.Request.Context(), mcServerHost, mcServerPort)
	if err != nil {
		log.Println("Error querying the Minecraft server:", err)
		c.JSON(500, gin.H{"error": "Failed to fetch player count"})
		return
	}

	if err := upsertOnlinePlayers(st.Players); err != nil {
		log.Println("Player upsert failed:", err)
	}

	c.JSON(200, gin.H{"count": st.Online})
}

// HandlePlayers refreshes the players table from a live status query
// when one succeeds; when the server is unreachable it serves the
// stored roster with everyone marked offline.
func HandlePlayers(c *gin.Context) {
	st, err := mcstatus.Query(c.Request.Context(), mcServerHost, mcServerPort)
	if err != nil {
		log.Println("Error fetching players:", err)
		if err := markAllPlayersOffline(); err != nil {
			log.Println("Player offline sweep failed:", err)
		}
	} else if err := upsertOnlinePlayers(st.Players); err != nil {
		log.Println("Player upsert failed:", err)
	}

	players, err := loadPlayers()
	if err != nil {
		c.JSON(500, gin.H{"error": "Could not fetch players"})
		return
	}

	c.JSON(200, gin.H{"players": players})
}

// upsertOnlinePlayers replaces the online set with the sampled one:
// everyone not in the sample goes offline, sampled players are upserted
// as online with a fresh last_seen.
func upsertOnlinePlayers(sample []mcstatus.Player) error {
	tx, err := db.SiteDB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`UPDATE players SET online = 0`); err != nil {
		return err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	for _, p := range sample {
		if p.UUID == "" || p.Name == "" {
			continue
		}
		_, err := tx.Exec(
			`INSERT INTO players (uuid, name, online, last_seen) VALUES (?, ?, 1, ?)
			 ON CONFLICT(uuid) DO UPDATE SET name = excluded.name, online = 1, last_seen = excluded.last_seen`,
			p.UUID, p.Name, now,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func markAllPlayersOffline() error {
	_, err := db.SiteDB.Exec(`UPDATE players SET online = 0`)
	return err
}

func loadPlayers() ([]types.Player, error) {
	rows, err := db.SiteDB.Query(
		`SELECT uuid, name, online, last_seen FROM players ORDER BY online DESC, name COLLATE NOCASE`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := []types.Player{}
	for rows.Next() {
		var p types.Player
		var online int
		var lastSeen sql.NullString
		if err := rows.Scan(&p.UUID, &p.Name, &online, &lastSeen); err != nil {
			log.Println("Error scanning player row:", err)
			continue
		}
		p.Online = online == 1
		p.LastSeen = lastSeen.String
		players = append(players, p)
	}
	return players, rows.Err()
}

// playerOnline reports the stored online flag for a player name; the
// router uses it to annotate minecraft-author messages.
func playerOnline(name string) (bool, bool) {
	var online int
	err := db.SiteDB.QueryRow(`SELECT online FROM players WHERE name = ?`, name).Scan(&online)
	if err != nil {
		return false, false
	}
	return online == 1, true
}
