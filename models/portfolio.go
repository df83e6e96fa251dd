package models

import (
	"slices"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// PortfolioKey is the value of the uniquely indexed "key" field. Every portfolio
// write filters on it, so at most one document can ever exist.
const PortfolioKey = "main"

type Section string

const (
	SectionHero     Section = "hero"
	SectionAbout    Section = "about"
	SectionProjects Section = "projects"
	SectionContact  Section = "contact"
	SectionFooter   Section = "footer"
)

func (s Section) Valid() bool {
	switch s {
	case SectionHero, SectionAbout, SectionProjects, SectionContact, SectionFooter:
		return true
	}
	return false
}

// Collection names an embedded list inside a section.
type Collection string

const (
	CollectionProjects    Collection = "projects"
	CollectionSkills      Collection = "skills"
	CollectionContactInfo Collection = "contact-info"
)

// Path returns the dotted document path of the embedded list.
func (c Collection) Path() string {
	switch c {
	case CollectionProjects:
		return "projects.items"
	case CollectionSkills:
		return "about.skills"
	case CollectionContactInfo:
		return "contact.contactInfo"
	}
	return ""
}

type Portfolio struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Key       string        `bson:"key" json:"-"`
	Hero      Hero          `bson:"hero" json:"hero"`
	About     About         `bson:"about" json:"about"`
	Projects  Projects      `bson:"projects" json:"projects"`
	Contact   Contact       `bson:"contact" json:"contact"`
	Footer    Footer        `bson:"footer" json:"footer"`
	CreatedAt time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time     `bson:"updatedAt" json:"updatedAt"`
}

type SocialLinks struct {
	Github   string `bson:"github" json:"github"`
	Linkedin string `bson:"linkedin" json:"linkedin"`
	Email    string `bson:"email" json:"email"`
}

type Hero struct {
	Title       string      `bson:"title" json:"title"`
	Subtitle    string      `bson:"subtitle" json:"subtitle"`
	Description string      `bson:"description" json:"description"`
	CVURL       string      `bson:"cvUrl" json:"cvUrl"`
	SocialLinks SocialLinks `bson:"socialLinks" json:"socialLinks"`
}

type Skill struct {
	ID          bson.ObjectID `bson:"_id" json:"id"`
	Icon        string        `bson:"icon" json:"icon"`
	Title       string        `bson:"title" json:"title"`
	Description string        `bson:"description" json:"description"`
}

type About struct {
	Title        string  `bson:"title" json:"title"`
	Subtitle     string  `bson:"subtitle" json:"subtitle"`
	Description  string  `bson:"description" json:"description"`
	Paragraph1   string  `bson:"paragraph1" json:"paragraph1"`
	Paragraph2   string  `bson:"paragraph2" json:"paragraph2"`
	Paragraph3   string  `bson:"paragraph3" json:"paragraph3"`
	ProfileImage string  `bson:"profileImage" json:"profileImage"`
	Skills       []Skill `bson:"skills" json:"skills"`
}

type Project struct {
	ID           bson.ObjectID `bson:"_id" json:"id"`
	Title        string        `bson:"title" json:"title"`
	Description  string        `bson:"description" json:"description"`
	Technologies []string      `bson:"technologies" json:"technologies"`
	FrontendURL  string        `bson:"frontendUrl" json:"frontendUrl"`
	BackendURL   string        `bson:"backendUrl" json:"backendUrl"`
	LiveURL      string        `bson:"liveUrl" json:"liveUrl"`
	Image        string        `bson:"image" json:"image"`
	Featured     bool          `bson:"featured" json:"featured"`
	Order        int           `bson:"order" json:"order"`
}

type Projects struct {
	Title    string    `bson:"title" json:"title"`
	Subtitle string    `bson:"subtitle" json:"subtitle"`
	Items    []Project `bson:"items" json:"items"`
}

type ContactInfo struct {
	ID    bson.ObjectID `bson:"_id" json:"id"`
	Icon  string        `bson:"icon" json:"icon"`
	Title string        `bson:"title" json:"title"`
	Value string        `bson:"value" json:"value"`
	Href  string        `bson:"href" json:"href"`
}

type Contact struct {
	Title        string        `bson:"title" json:"title"`
	Subtitle     string        `bson:"subtitle" json:"subtitle"`
	Description  string        `bson:"description" json:"description"`
	ContactInfo  []ContactInfo `bson:"contactInfo" json:"contactInfo"`
	ResponseTime string        `bson:"responseTime" json:"responseTime"`
}

type FooterLink struct {
	Text string `bson:"text" json:"text"`
	URL  string `bson:"url" json:"url"`
}

type Footer struct {
	Copyright       string       `bson:"copyright" json:"copyright"`
	Description     string       `bson:"description" json:"description"`
	AdditionalLinks []FooterLink `bson:"additionalLinks" json:"additionalLinks"`
}

// PortfolioSummary is the dashboard view of the portfolio.
type PortfolioSummary struct {
	ProjectsCount int       `json:"projectsCount"`
	SkillsCount   int       `json:"skillsCount"`
	LastUpdated   time.Time `json:"lastUpdated"`
}

func (p *Portfolio) Summary() PortfolioSummary {
	return PortfolioSummary{
		ProjectsCount: len(p.Projects.Items),
		SkillsCount:   len(p.About.Skills),
		LastUpdated:   p.UpdatedAt,
	}
}

// SectionValue returns the named section of p.
func (p *Portfolio) SectionValue(s Section) any {
	switch s {
	case SectionHero:
		return p.Hero
	case SectionAbout:
		return p.About
	case SectionProjects:
		return p.Projects
	case SectionContact:
		return p.Contact
	case SectionFooter:
		return p.Footer
	}
	return nil
}

// CopySection copies section s from src into p.
func (p *Portfolio) CopySection(s Section, src *Portfolio) {
	switch s {
	case SectionHero:
		p.Hero = src.Hero
	case SectionAbout:
		p.About = src.About
	case SectionProjects:
		p.Projects = src.Projects
	case SectionContact:
		p.Contact = src.Contact
	case SectionFooter:
		p.Footer = src.Footer
	}
}

// Clone returns a deep copy of p.
func (p *Portfolio) Clone() *Portfolio {
	c := *p
	c.About.Skills = slices.Clone(p.About.Skills)
	c.Projects.Items = make([]Project, len(p.Projects.Items))
	for i, item := range p.Projects.Items {
		item.Technologies = slices.Clone(item.Technologies)
		c.Projects.Items[i] = item
	}
	c.Contact.ContactInfo = slices.Clone(p.Contact.ContactInfo)
	c.Footer.AdditionalLinks = slices.Clone(p.Footer.AdditionalLinks)
	return &c
}
