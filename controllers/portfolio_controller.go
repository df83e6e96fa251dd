package controllers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/princinho/portfoliobackend/dto"
	"github.com/princinho/portfoliobackend/models"
	"github.com/princinho/portfoliobackend/services"
	"github.com/princinho/portfoliobackend/utils"
)

// GET /portfolio
func GetPortfolio(content *services.Content) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := content.Get(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		utils.Success(c, http.StatusOK, "", p)
	}
}

// PUT /portfolio
func UpdatePortfolio(content *services.Content) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.PortfolioDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			bindError(c, err)
			return
		}
		sections, in := body.Sections()

		p, err := content.ReplaceSections(c.Request.Context(), sections, in)
		if err != nil {
			respondError(c, err)
			return
		}
		utils.Success(c, http.StatusOK, "Portfolio updated successfully", p)
	}
}

// PUT /portfolio/:section
func UpdateSection(content *services.Content) gin.HandlerFunc {
	return func(c *gin.Context) {
		section := models.Section(c.Param("section"))
		if !section.Valid() {
			utils.Error(c, http.StatusBadRequest, "Invalid section")
			return
		}
		raw, err := io.ReadAll(c.Request.Body)
		if err != nil {
			bindError(c, err)
			return
		}
		in, err := dto.DecodeSection(section, raw)
		if err != nil {
			bindError(c, err)
			return
		}

		p, err := content.ReplaceSection(c.Request.Context(), section, in)
		if err != nil {
			respondError(c, err)
			return
		}
		utils.Success(c, http.StatusOK, capitalize(string(section))+" section updated successfully", p.SectionValue(section))
	}
}

func paramRef(c *gin.Context, name string) (services.ItemRef, bool) {
	ref, err := services.ParseItemRef(c.Param(name))
	if err != nil {
		respondError(c, err)
		return ref, false
	}
	return ref, true
}

// DELETE /portfolio/{projects,skills,contact-info}/:id
func DeleteItem(content *services.Content, coll models.Collection) gin.HandlerFunc {
	return func(c *gin.Context) {
		ref, ok := paramRef(c, "id")
		if !ok {
			return
		}
		p, err := content.DeleteItem(c.Request.Context(), coll, ref)
		if err != nil {
			respondError(c, err)
			return
		}
		var data any = gin.H{}
		if coll == models.CollectionContactInfo {
			data = p.Contact.ContactInfo
		}
		utils.Success(c, http.StatusOK, "Deleted successfully", data)
	}
}

// POST /portfolio/projects
func AddProject(content *services.Content) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.CreateProjectDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			bindError(c, err)
			return
		}
		project, err := content.AddProject(c.Request.Context(), services.ProjectInput{
			Title:        body.Title,
			Description:  body.Description,
			Technologies: body.Technologies,
			FrontendURL:  body.FrontendURL,
			BackendURL:   body.BackendURL,
			LiveURL:      body.LiveURL,
			Image:        body.Image,
			Featured:     body.Featured,
			Order:        body.Order,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		utils.Success(c, http.StatusCreated, "Project added successfully", project)
	}
}

// PUT /portfolio/projects/:id
func UpdateProject(content *services.Content) gin.HandlerFunc {
	return func(c *gin.Context) {
		ref, ok := paramRef(c, "id")
		if !ok {
			return
		}
		var body dto.UpdateProjectDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			bindError(c, err)
			return
		}
		patch := services.ProjectPatch{
			Title:       body.Title,
			Description: body.Description,
			FrontendURL: body.FrontendURL,
			BackendURL:  body.BackendURL,
			LiveURL:     body.LiveURL,
			Image:       body.Image,
			Featured:    body.Featured,
			Order:       body.Order,
		}
		if body.Technologies != nil {
			techs := []string(*body.Technologies)
			patch.Technologies = &techs
		}

		project, err := content.UpdateProject(c.Request.Context(), ref, patch)
		if err != nil {
			respondError(c, err)
			return
		}
		utils.Success(c, http.StatusOK, "Project updated successfully", project)
	}
}

// POST /portfolio/skills
func AddSkill(content *services.Content) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.SkillDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			bindError(c, err)
			return
		}
		skill, err := content.AddSkill(c.Request.Context(), services.SkillInput(body))
		if err != nil {
			respondError(c, err)
			return
		}
		utils.Success(c, http.StatusCreated, "Skill added successfully", skill)
	}
}

// PUT /portfolio/skills/:id
func UpdateSkill(content *services.Content) gin.HandlerFunc {
	return func(c *gin.Context) {
		ref, ok := paramRef(c, "id")
		if !ok {
			return
		}
		var body dto.SkillDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			bindError(c, err)
			return
		}
		skill, err := content.UpdateSkill(c.Request.Context(), ref, services.SkillInput(body))
		if err != nil {
			respondError(c, err)
			return
		}
		utils.Success(c, http.StatusOK, "Skill updated successfully", skill)
	}
}

// POST /portfolio/contact-info
func AddContactInfo(content *services.Content) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.ContactInfoDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			bindError(c, err)
			return
		}
		list, err := content.AddContactInfo(c.Request.Context(), services.ContactInfoInput(body))
		if err != nil {
			respondError(c, err)
			return
		}
		utils.Success(c, http.StatusCreated, "Contact info added successfully", list)
	}
}

// PUT /portfolio/contact-info/:id
func UpdateContactInfo(content *services.Content) gin.HandlerFunc {
	return func(c *gin.Context) {
		ref, ok := paramRef(c, "id")
		if !ok {
			return
		}
		var body dto.ContactInfoDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			bindError(c, err)
			return
		}
		list, err := content.UpdateContactInfo(c.Request.Context(), ref, services.ContactInfoInput(body))
		if err != nil {
			respondError(c, err)
			return
		}
		utils.Success(c, http.StatusOK, "Contact info updated successfully", list)
	}
}
