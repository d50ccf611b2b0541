package main

import (
	"log"
	"time"

	"mcportal/db"
	"mcportal/types"

	"github.com/gin-gonic/gin"
)

func HandleApply(c *gin.Context) {
	var req struct {
		McName     string `json:"mcName" binding:"required"`
		DcName     string `json:"dcName" binding:"required"`
		Age        int    `json:"age" binding:"required"`
		HowFound   string `json:"howFound"`
		Experience string `json:"experience"`
		WhyJoin    string `json:"whyJoin" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "Missing required application fields"})
		return
	}

	createdAt := time.Now().UTC().Format(time.RFC3339)
	res, err := db.SiteDB.Exec(
		`INSERT INTO applications (mc_name, dc_name, age, how_found, experience, why_join, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		req.McName, req.DcName, req.Age, req.HowFound, req.Experience, req.WhyJoin, createdAt,
	)
	if err != nil {
		log.Println("Error saving application:", err)
		c.JSON(500, gin.H{"error": "Failed to save application"})
		return
	}

	id, _ := res.LastInsertId()
	c.JSON(200, gin.H{
		"success": true,
		"application": types.Application{
			ID:         int(id),
			McName:     req.McName,
			DcName:     req.DcName,
			Age:        req.Age,
			HowFound:   req.HowFound,
			Experience: req.Experience,
			WhyJoin:    req.WhyJoin,
			CreatedAt:  createdAt,
		},
	})
}

func HandleWaitList(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "A valid email is required"})
		return
	}

	createdAt := time.Now().UTC().Format(time.RFC3339)
	_, err := db.SiteDB.Exec(
		`INSERT OR IGNORE INTO wait_list (email, created_at) VALUES (?, ?)`,
		req.Email, createdAt,
	)
	if err != nil {
		log.Println("Error saving wait-list email:", err)
		c.JSON(500, gin.H{"error": "Failed to save email"})
		return
	}

	c.JSON(200, gin.H{"success": true, "email": req.Email})
}
