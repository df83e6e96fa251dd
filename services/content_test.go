package services

import (
	"context"
	"sync"
	"testing"

	"github.com/princinho/portfoliobackend/models"
	"github.com/princinho/portfoliobackend/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// countingPortfolio counts how many times the default document was built.
type countingPortfolio struct {
	repository.PortfolioRepository
	mu      sync.Mutex
	created int
}

func (c *countingPortfolio) GetOrCreate(ctx context.Context, newDefault func() models.Portfolio) (*models.Portfolio, error) {
	return c.PortfolioRepository.GetOrCreate(ctx, func() models.Portfolio {
		c.mu.Lock()
		c.created++
		c.mu.Unlock()
		return newDefault()
	})
}

func newTestContent() *Content {
	return NewContent(repository.NewMemoryStore().Portfolio)
}

func TestGetCreatesDefaults(t *testing.T) {
	ctx := context.Background()
	c := newTestContent()

	p, err := c.Get(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, p.Hero.Title)
	assert.Len(t, p.About.Skills, 4)
	assert.Len(t, p.Contact.ContactInfo, 3)
	assert.NotNil(t, p.Projects.Items)
	assert.Equal(t, models.DefaultFooterDescription, p.Footer.Description)

	again, err := c.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, p, again)
}

func TestGetConcurrentCreatesOnce(t *testing.T) {
	ctx := context.Background()
	repo := &countingPortfolio{PortfolioRepository: repository.NewMemoryStore().Portfolio}
	c := NewContent(repo)

	const n = 20
	ids := make([]bson.ObjectID, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, err := c.Get(ctx)
			if assert.NoError(t, err) {
				ids[i] = p.ID
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, repo.created)
	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
}

func TestReplaceSectionValidatesRequiredFields(t *testing.T) {
	ctx := context.Background()
	c := newTestContent()

	before, err := c.Get(ctx)
	require.NoError(t, err)

	_, err = c.ReplaceSection(ctx, models.SectionHero, &models.Portfolio{
		Hero: models.Hero{Subtitle: "sub", Description: "desc"},
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "hero.title", verr.Field)

	after, err := c.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, before.Hero, after.Hero)
}

func TestReplaceSectionKeepsEmbeddedList(t *testing.T) {
	ctx := context.Background()
	c := newTestContent()

	before, err := c.Get(ctx)
	require.NoError(t, err)

	p, err := c.ReplaceSection(ctx, models.SectionAbout, &models.Portfolio{
		About: models.About{Title: "About", Subtitle: "Me", Description: "Hello"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello", p.About.Description)
	assert.Equal(t, before.About.Skills, p.About.Skills)
}

func TestReplaceSectionReplacesListWhenGiven(t *testing.T) {
	ctx := context.Background()
	c := newTestContent()

	p, err := c.ReplaceSection(ctx, models.SectionContact, &models.Portfolio{
		Contact: models.Contact{
			Title: "Contact", Subtitle: "Say hi", Description: "Write me",
			ContactInfo: []models.ContactInfo{{Icon: "mail", Title: "Email", Value: "me@example.com"}},
		},
	})
	require.NoError(t, err)
	require.Len(t, p.Contact.ContactInfo, 1)
	assert.False(t, p.Contact.ContactInfo[0].ID.IsZero())
	assert.Equal(t, "#", p.Contact.ContactInfo[0].Href)
}

func TestReplaceSectionsUpdatesOnlyGivenSections(t *testing.T) {
	ctx := context.Background()
	c := newTestContent()

	before, err := c.Get(ctx)
	require.NoError(t, err)

	p, err := c.ReplaceSections(ctx, []models.Section{models.SectionFooter}, &models.Portfolio{
		Footer: models.Footer{Copyright: "2026 Me", Description: "bye"},
	})
	require.NoError(t, err)
	assert.Equal(t, "2026 Me", p.Footer.Copyright)
	assert.NotNil(t, p.Footer.AdditionalLinks)
	assert.Equal(t, before.Hero, p.Hero)
}

func TestAddThenDeleteProjectRestoresLength(t *testing.T) {
	ctx := context.Background()
	c := newTestContent()

	before, err := c.Get(ctx)
	require.NoError(t, err)

	project, err := c.AddProject(ctx, ProjectInput{
		Title:        "Site",
		Description:  "A site",
		Technologies: []string{"Go", " ", "MongoDB"},
	})
	require.NoError(t, err)
	assert.Equal(t, len(before.Projects.Items), project.Order)
	assert.Equal(t, []string{"Go", "MongoDB"}, project.Technologies)

	mid, err := c.Get(ctx)
	require.NoError(t, err)
	assert.Len(t, mid.Projects.Items, len(before.Projects.Items)+1)

	_, err = c.DeleteItem(ctx, models.CollectionProjects, ItemRef{ID: project.ID})
	require.NoError(t, err)

	after, err := c.Get(ctx)
	require.NoError(t, err)
	assert.Len(t, after.Projects.Items, len(before.Projects.Items))
}

func TestProjectOrderIsNotResequenced(t *testing.T) {
	ctx := context.Background()
	c := newTestContent()

	first, err := c.AddProject(ctx, ProjectInput{Title: "One", Description: "1"})
	require.NoError(t, err)
	_, err = c.AddProject(ctx, ProjectInput{Title: "Two", Description: "2"})
	require.NoError(t, err)

	_, err = c.DeleteItem(ctx, models.CollectionProjects, ItemRef{ID: first.ID})
	require.NoError(t, err)

	third, err := c.AddProject(ctx, ProjectInput{Title: "Three", Description: "3"})
	require.NoError(t, err)
	// One project remains, so the new one gets order 1, same as "Two".
	assert.Equal(t, 1, third.Order)
}

func TestUpdateProjectMergesPatch(t *testing.T) {
	ctx := context.Background()
	c := newTestContent()

	project, err := c.AddProject(ctx, ProjectInput{Title: "Site", Description: "A site", LiveURL: "https://a.example"})
	require.NoError(t, err)

	title := "New site"
	featured := true
	updated, err := c.UpdateProject(ctx, ItemRef{ID: project.ID}, ProjectPatch{Title: &title, Featured: &featured})
	require.NoError(t, err)
	assert.Equal(t, "New site", updated.Title)
	assert.Equal(t, "A site", updated.Description)
	assert.Equal(t, "https://a.example", updated.LiveURL)
	assert.True(t, updated.Featured)

	empty := ""
	_, err = c.UpdateProject(ctx, ItemRef{ID: project.ID}, ProjectPatch{Title: &empty})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestItemNotFound(t *testing.T) {
	ctx := context.Background()
	c := newTestContent()

	_, err := c.DeleteItem(ctx, models.CollectionProjects, ItemRef{ID: bson.NewObjectID()})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = c.UpdateSkill(ctx, ItemRef{Index: 99, ByIndex: true}, SkillInput{Icon: "x", Title: "x", Description: "x"})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = c.DeleteItem(ctx, models.CollectionContactInfo, ItemRef{Index: -1, ByIndex: true})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestContactInfoByIndexAndID(t *testing.T) {
	ctx := context.Background()
	c := newTestContent()

	list, err := c.AddContactInfo(ctx, ContactInfoInput{Icon: "phone", Title: "Phone", Value: "+1 555"})
	require.NoError(t, err)
	require.Len(t, list, 4)
	added := list[3]
	assert.Equal(t, "#", added.Href)

	list, err = c.UpdateContactInfo(ctx, ItemRef{Index: 3, ByIndex: true}, ContactInfoInput{
		Icon: "phone", Title: "Mobile", Value: "+1 555", Href: "tel:+1555",
	})
	require.NoError(t, err)
	assert.Equal(t, added.ID, list[3].ID)
	assert.Equal(t, "Mobile", list[3].Title)

	p, err := c.DeleteItem(ctx, models.CollectionContactInfo, ItemRef{ID: added.ID})
	require.NoError(t, err)
	assert.Len(t, p.Contact.ContactInfo, 3)
}

func TestSkillCRUD(t *testing.T) {
	ctx := context.Background()
	c := newTestContent()

	skill, err := c.AddSkill(ctx, SkillInput{Icon: "db", Title: "Databases", Description: "Mongo"})
	require.NoError(t, err)

	updated, err := c.UpdateSkill(ctx, ItemRef{ID: skill.ID}, SkillInput{Icon: "db", Title: "Data", Description: "Mongo"})
	require.NoError(t, err)
	assert.Equal(t, skill.ID, updated.ID)
	assert.Equal(t, "Data", updated.Title)

	_, err = c.AddSkill(ctx, SkillInput{Title: "No icon", Description: "x"})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestParseItemRef(t *testing.T) {
	id := bson.NewObjectID()

	ref, err := ParseItemRef(id.Hex())
	require.NoError(t, err)
	assert.Equal(t, ItemRef{ID: id}, ref)

	ref, err = ParseItemRef("2")
	require.NoError(t, err)
	assert.Equal(t, ItemRef{Index: 2, ByIndex: true}, ref)

	_, err = ParseItemRef("nope")
	assert.Error(t, err)
}
