package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const DefaultFooterDescription = "Building digital experiences with passion and precision."

// DefaultPortfolio returns the content used when the portfolio is first read.
// Embedded elements get fresh ids on every call.
func DefaultPortfolio(now time.Time) Portfolio {
	return Portfolio{
		Key: PortfolioKey,
		Hero: Hero{
			Title:       "Full Stack Developer",
			Subtitle:    "Building modern web applications with React, Node.js, and MongoDB",
			Description: "Passionate about creating clean, efficient code and beautiful user experiences. Let's build something amazing together.",
			SocialLinks: SocialLinks{
				Github:   "https://github.com/",
				Linkedin: "https://www.linkedin.com/",
				Email:    "hello@example.com",
			},
		},
		About: About{
			Title:       "About Me",
			Subtitle:    "A passionate developer with expertise in modern web technologies",
			Description: "I'm a dedicated full-stack developer with a passion for creating innovative web applications. I specialize in building scalable, user-friendly solutions that solve real-world problems.",
			Paragraph1:  "My journey in web development started with a curiosity about how websites work, and it has evolved into a career focused on clean code, optimal performance, and exceptional user experiences.",
			Paragraph2:  "When I'm not coding, you can find me exploring new technologies, contributing to open-source projects, or sharing knowledge with the developer community.",
			Skills: []Skill{
				{ID: bson.NewObjectID(), Icon: "Code", Title: "Frontend Development", Description: "React, TypeScript, Tailwind CSS, Next.js"},
				{ID: bson.NewObjectID(), Icon: "Database", Title: "Backend Development", Description: "Node.js, Express, MongoDB, PostgreSQL"},
				{ID: bson.NewObjectID(), Icon: "Globe", Title: "Full Stack Applications", Description: "RESTful APIs, Authentication, Cloud deployment"},
				{ID: bson.NewObjectID(), Icon: "Smartphone", Title: "Mobile Responsive", Description: "Progressive Web Apps, Mobile-first design"},
			},
		},
		Projects: Projects{
			Title:    "Featured Projects",
			Subtitle: "A showcase of my recent work and personal projects",
			Items:    []Project{},
		},
		Contact: Contact{
			Title:       "Get In Touch",
			Subtitle:    "Let's discuss your next project or collaboration opportunity",
			Description: "I'm always interested in hearing about new opportunities and exciting projects. Whether you're a company looking to hire, or a fellow developer wanting to collaborate, I'd love to hear from you.",
			ContactInfo: []ContactInfo{
				{ID: bson.NewObjectID(), Icon: "Mail", Title: "Email", Value: "hello@example.com", Href: "mailto:hello@example.com"},
				{ID: bson.NewObjectID(), Icon: "Phone", Title: "Phone", Value: "+1 555 0100", Href: "tel:+15550100"},
				{ID: bson.NewObjectID(), Icon: "MapPin", Title: "Location", Value: "Remote", Href: "#"},
			},
			ResponseTime: "Typically responds within 24 hours",
		},
		Footer: Footer{
			Copyright:       "© " + now.Format("2006") + " All rights reserved.",
			Description:     DefaultFooterDescription,
			AdditionalLinks: []FooterLink{},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SampleProjects seeds an empty project list during init-db.
func SampleProjects() []Project {
	return []Project{
		{
			ID:           bson.NewObjectID(),
			Title:        "E-Commerce Platform",
			Description:  "Full-stack e-commerce application with user authentication, shopping cart, and payment integration.",
			Technologies: []string{"React", "Node.js", "MongoDB", "Stripe"},
			Featured:     true,
			Order:        1,
		},
		{
			ID:           bson.NewObjectID(),
			Title:        "Task Management App",
			Description:  "Collaborative task management application with real-time updates and team collaboration features.",
			Technologies: []string{"React", "Express", "PostgreSQL", "Socket.io"},
			Featured:     true,
			Order:        2,
		},
		{
			ID:           bson.NewObjectID(),
			Title:        "Weather Dashboard",
			Description:  "Interactive weather dashboard with location-based forecasts and data visualization.",
			Technologies: []string{"React", "TypeScript", "Chart.js", "Weather API"},
			Order:        3,
		},
	}
}
