package dto

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/princinho/portfoliobackend/models"
)

// StringList accepts either a JSON array of strings or a single
// comma-separated string.
type StringList []string

func (l *StringList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*l = nil
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		out := StringList{}
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		*l = out
		return nil
	}
	var arr []string
	if err := json.Unmarshal(b, &arr); err != nil {
		return errors.New("technologies must be an array or a comma-separated string")
	}
	*l = arr
	return nil
}

type CreateProjectDTO struct {
	Title        string     `json:"title" binding:"required"`
	Description  string     `json:"description" binding:"required"`
	Technologies StringList `json:"technologies"`
	FrontendURL  string     `json:"frontendUrl"`
	BackendURL   string     `json:"backendUrl"`
	LiveURL      string     `json:"liveUrl"`
	Image        string     `json:"image"`
	Featured     bool       `json:"featured"`
	Order        *int       `json:"order"` // defaults to the current number of projects
}

// UpdateProjectDTO has optional pointer fields; nil means unchanged.
type UpdateProjectDTO struct {
	Title        *string     `json:"title"`
	Description  *string     `json:"description"`
	Technologies *StringList `json:"technologies"`
	FrontendURL  *string     `json:"frontendUrl"`
	BackendURL   *string     `json:"backendUrl"`
	LiveURL      *string     `json:"liveUrl"`
	Image        *string     `json:"image"`
	Featured     *bool       `json:"featured"`
	Order        *int        `json:"order"`
}

type SkillDTO struct {
	Icon        string `json:"icon" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
}

type ContactInfoDTO struct {
	Icon  string `json:"icon" binding:"required"`
	Title string `json:"title" binding:"required"`
	Value string `json:"value" binding:"required"`
	Href  string `json:"href"`
}

// PortfolioDTO is a partial portfolio; only the sections present in the body
// are replaced.
type PortfolioDTO struct {
	Hero     *models.Hero     `json:"hero"`
	About    *models.About    `json:"about"`
	Projects *models.Projects `json:"projects"`
	Contact  *models.Contact  `json:"contact"`
	Footer   *models.Footer   `json:"footer"`
}

// Sections returns the sections present in the body and a portfolio carrying
// their values.
func (d *PortfolioDTO) Sections() ([]models.Section, *models.Portfolio) {
	var p models.Portfolio
	var sections []models.Section
	if d.Hero != nil {
		p.Hero = *d.Hero
		sections = append(sections, models.SectionHero)
	}
	if d.About != nil {
		p.About = *d.About
		sections = append(sections, models.SectionAbout)
	}
	if d.Projects != nil {
		p.Projects = *d.Projects
		sections = append(sections, models.SectionProjects)
	}
	if d.Contact != nil {
		p.Contact = *d.Contact
		sections = append(sections, models.SectionContact)
	}
	if d.Footer != nil {
		p.Footer = *d.Footer
		sections = append(sections, models.SectionFooter)
	}
	return sections, &p
}

// DecodeSection decodes a single section body into the matching field of a
// portfolio.
func DecodeSection(section models.Section, body []byte) (*models.Portfolio, error) {
	var p models.Portfolio
	var target any
	switch section {
	case models.SectionHero:
		target = &p.Hero
	case models.SectionAbout:
		target = &p.About
	case models.SectionProjects:
		target = &p.Projects
	case models.SectionContact:
		target = &p.Contact
	case models.SectionFooter:
		target = &p.Footer
	default:
		return nil, errors.New("unknown section")
	}
	if err := json.Unmarshal(body, target); err != nil {
		return nil, err
	}
	return &p, nil
}
