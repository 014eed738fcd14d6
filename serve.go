package wheatconv

// Read-only HTTP server for inspecting a reorganized dataset.

import (
	"bytes"
	"image/jpeg"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/agrovision/wheatconv/logger"
)

// NewServer builds the inspection API over the dataset at categoryRoot.
func NewServer(categoryRoot string, cfg Config) *gin.Engine {
	r := gin.Default()

	r.GET("/api/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	r.GET("/api/summary", func(c *gin.Context) {
		splits := gin.H{}
		for _, split := range []string{"train", "val", "test", "all", "train_val"} {
			stems := ReadSplitList(filepath.Join(categoryRoot, "sets", split+".txt"))
			splits[split] = len(stems)
		}

		images, err := imageStemsInDir(filepath.Join(categoryRoot, "images"))
		if err != nil {
			logger.S().Warnf("Cannot list images under %s: %v", categoryRoot, err)
		}

		c.JSON(http.StatusOK, gin.H{"data": gin.H{
			"category": filepath.Base(categoryRoot),
			"splits":   splits,
			"images":   len(images),
		}})
	})

	r.GET("/api/images", func(c *gin.Context) {
		split := c.DefaultQuery("split", "all")
		c.JSON(http.StatusOK, gin.H{"data": splitMembers(categoryRoot, split)})
	})

	r.GET("/api/annotations/:stem", func(c *gin.Context) {
		csvPath := filepath.Join(categoryRoot, "csv", c.Param("stem")+".csv")
		if !fileExists(csvPath) {
			c.JSON(404, gin.H{"error": "Annotations not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": ReadImageCSV(csvPath)})
	})

	r.GET("/images/:name", func(c *gin.Context) {
		imgPath := filepath.Join(categoryRoot, "images", c.Param("name"))
		if !fileExists(imgPath) {
			c.JSON(404, gin.H{"error": "Image not found"})
			return
		}
		c.File(imgPath)
	})

	r.GET("/api/preview/:stem", func(c *gin.Context) {
		maxSide := 0
		if s := c.Query("maxside"); s != "" {
			v, err := strconv.Atoi(s)
			if err != nil || v < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid maxside"})
				return
			}
			maxSide = v
		}

		imageStem := c.Param("stem")
		imgPath, ok := locateImage(filepath.Join(categoryRoot, "images"), imageStem)
		if !ok {
			c.JSON(404, gin.H{"error": "Image not found"})
			return
		}

		boxes := ReadImageCSV(filepath.Join(categoryRoot, "csv", imageStem+".csv"))
		img, err := renderPreview(imgPath, boxes, maxSide)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: cfg.JPEGQuality}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Data(http.StatusOK, "image/jpeg", buf.Bytes())
	})

	return r
}

// Serve runs the inspection server on addr until it fails or is interrupted.
func Serve(addr, categoryRoot string, cfg Config) error {
	logger.S().Infof("Serving dataset %s on %s", categoryRoot, addr)
	return NewServer(categoryRoot, cfg).Run(addr)
}
