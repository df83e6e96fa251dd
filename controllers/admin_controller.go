package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/princinho/portfoliobackend/services"
	"github.com/princinho/portfoliobackend/utils"
)

// GET /admin/dashboard
func GetDashboard(content *services.Content, inbox *services.Inbox) gin.HandlerFunc {
	return func(c *gin.Context) {
		d, err := services.BuildDashboard(c.Request.Context(), content, inbox)
		if err != nil {
			respondError(c, err)
			return
		}
		utils.Success(c, http.StatusOK, "", d)
	}
}

// POST /admin/upload (multipart field "image")
func UploadImage(store utils.ObjectStore, v *utils.FileValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, v.MaxSize()+1<<20)

		fh, err := c.FormFile("image")
		if err != nil {
			utils.Error(c, http.StatusBadRequest, "Please upload a file")
			return
		}
		mime, err := v.ValidateFile(fh)
		if err != nil {
			utils.Error(c, http.StatusBadRequest, err.Error())
			return
		}

		f, err := fh.Open()
		if err != nil {
			respondError(c, err)
			return
		}
		defer f.Close()

		name := utils.UploadObjectName(fh.Filename)
		url, err := store.Put(c.Request.Context(), name, mime, f, fh.Size)
		if err != nil {
			respondError(c, err)
			return
		}
		utils.Success(c, http.StatusOK, "Image uploaded successfully", gin.H{
			"url":      url,
			"filename": name[len(utils.UploadPrefix):],
			"size":     fh.Size,
			"mimeType": mime,
		})
	}
}

// GET /admin/uploads
func GetUploads(store utils.ObjectStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		objects, err := store.List(c.Request.Context(), utils.UploadPrefix)
		if err != nil {
			respondError(c, err)
			return
		}
		if objects == nil {
			objects = []utils.StoredObject{}
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "count": len(objects), "data": objects})
	}
}

// DELETE /admin/upload/:filename
func DeleteUpload(store utils.ObjectStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		name, err := utils.UploadNameFromFilename(c.Param("filename"))
		if err != nil {
			utils.Error(c, http.StatusBadRequest, "Invalid filename")
			return
		}
		if err := store.Delete(c.Request.Context(), name); err != nil {
			respondError(c, err)
			return
		}
		utils.Success(c, http.StatusOK, "File deleted successfully", gin.H{})
	}
}

// GET /admin/export
func ExportData(transfer *services.Transfer) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap, err := transfer.Export(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		filename := fmt.Sprintf("portfolio-export-%d.json", time.Now().UnixMilli())
		c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
		utils.Success(c, http.StatusOK, "", snap)
	}
}

// importBody accepts a bare snapshot or a saved export response.
type importBody struct {
	services.Snapshot
	Data *services.Snapshot `json:"data"`
}

// POST /admin/import
func ImportData(transfer *services.Transfer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body importBody
		if err := c.ShouldBindJSON(&body); err != nil {
			bindError(c, err)
			return
		}
		snap := &body.Snapshot
		if body.Data != nil {
			snap = body.Data
		}
		if err := transfer.Import(c.Request.Context(), snap); err != nil {
			respondError(c, err)
			return
		}
		utils.Success(c, http.StatusOK, "Data imported successfully", gin.H{})
	}
}

// POST /admin/backup
func CreateBackup(transfer *services.Transfer, store utils.ObjectStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		obj, err := transfer.Backup(c.Request.Context(), store)
		if err != nil {
			respondError(c, err)
			return
		}
		utils.Success(c, http.StatusCreated, "Backup created successfully", obj)
	}
}
