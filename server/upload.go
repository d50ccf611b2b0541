package main

import (
	"context"
	"log"
	"strings"

	"mcportal/types"

	"github.com/gin-gonic/gin"
)

// HandleUploadImage accepts a multipart image with an optional caption,
// delivers it to the bridged channel, and broadcasts the caption with
// the platform-hosted attachment URL. If bridge delivery fails nothing
// is broadcast; the uploader gets the error instead.
func HandleUploadImage(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(400, gin.H{"error": "Image file is required"})
		return
	}
	caption := strings.TrimSpace(c.PostForm("message"))

	if relay == nil || relay.bridge == nil {
		c.JSON(503, gin.H{"error": "Image upload is unavailable"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(400, gin.H{"error": "Could not read uploaded image"})
		return
	}
	defer file.Close()

	ctx, cancel := context.WithTimeout(c.Request.Context(), bridgeCallTimeout)
	defer cancel()

	imageURL, err := relay.bridge.SendFile(ctx, fileHeader.Filename, file, caption)
	if err != nil {
		log.Println("Attachment delivery failed:", err)
		c.JSON(502, gin.H{"error": "Failed to deliver image"})
		return
	}

	relay.Enqueue(types.ChatMessage{Text: caption, Image: imageURL})

	c.JSON(200, gin.H{"success": true, "image": imageURL})
}
