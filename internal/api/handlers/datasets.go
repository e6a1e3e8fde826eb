package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Misakavorst/drl-quant-trading/internal/api/models"
	"github.com/Misakavorst/drl-quant-trading/internal/data"
)

const defaultDatasetDir = "datasets"

// datasetDir resolves the directory scanned for dataset files.
func datasetDir() string {
	if dir := os.Getenv("DATASET_DIR"); dir != "" {
		return dir
	}
	return defaultDatasetDir
}

// ListDatasets handles GET /api/v1/datasets
func ListDatasets(c *gin.Context) {
	dir := datasetDir()
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			c.JSON(http.StatusOK, gin.H{"datasets": []models.DatasetInfo{}})
			return
		}
		respondError(c, http.StatusInternalServerError, "DATASET_DIR_ERROR",
			fmt.Sprintf("failed to read dataset directory: %v", err))
		return
	}

	datasets := []models.DatasetInfo{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		ds, err := data.LoadDatasetJSON(path)
		if err != nil {
			// Skip unreadable files rather than failing the whole listing.
			continue
		}
		datasets = append(datasets, describeDataset(path, ds))
	}

	c.JSON(http.StatusOK, gin.H{"datasets": datasets, "count": len(datasets)})
}

// DescribeDataset handles GET /api/v1/datasets/info?path=...
func DescribeDataset(c *gin.Context) {
	path := c.Query("path")
	if path == "" {
		respondError(c, http.StatusBadRequest, "MISSING_PARAM", "path query parameter is required")
		return
	}

	ds, err := data.LoadDatasetJSON(path)
	if err != nil {
		if os.IsNotExist(err) {
			respondError(c, http.StatusNotFound, "DATASET_NOT_FOUND",
				fmt.Sprintf("no dataset at %s", path))
			return
		}
		respondError(c, http.StatusBadRequest, "DATASET_LOAD_ERROR",
			fmt.Sprintf("failed to load dataset: %v", err))
		return
	}

	c.JSON(http.StatusOK, describeDataset(path, ds))
}

func describeDataset(path string, ds *data.Dataset) models.DatasetInfo {
	info := models.DatasetInfo{
		Path:    path,
		Days:    len(ds.Dates),
		Assets:  len(ds.Symbols),
		Symbols: ds.Symbols,
	}
	if len(ds.Dates) > 0 {
		info.First = ds.Dates[0]
		info.Last = ds.Dates[len(ds.Dates)-1]
	}
	return info
}
