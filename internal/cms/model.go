package cms

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// HomeContent is the render-ready home page singleton. Every field is populated.
type HomeContent struct {
	Hero            Hero           `json:"hero" yaml:"hero"`
	ProblemSection  SectionIntro   `json:"problemSection" yaml:"problemSection"`
	Problems        []ProblemCard  `json:"problems" yaml:"problems"`
	SolutionSection SectionIntro   `json:"solutionSection" yaml:"solutionSection"`
	Solutions       []SolutionCard `json:"solutions" yaml:"solutions"`
	ProcessSection  SectionTitle   `json:"processSection" yaml:"processSection"`
	ProcessSteps    []ProcessStep  `json:"processSteps" yaml:"processSteps"`
	ResultsSection  SectionTitle   `json:"resultsSection" yaml:"resultsSection"`
	Stats           []StatCard     `json:"stats" yaml:"stats"`
	Testimonials    []Testimonial  `json:"testimonials" yaml:"testimonials"`
	About           About          `json:"about" yaml:"about"`
	CTA             CTA            `json:"cta" yaml:"cta"`
}

type Hero struct {
	Badge            string     `json:"badge" yaml:"badge"`
	Heading          string     `json:"heading" yaml:"heading"`
	HeadingHighlight string     `json:"headingHighlight" yaml:"headingHighlight"`
	Subheading       string     `json:"subheading" yaml:"subheading"`
	PrimaryCTA       string     `json:"primaryCta" yaml:"primaryCta"`
	SecondaryCTA     string     `json:"secondaryCta" yaml:"secondaryCta"`
	HeroStats        []HeroStat `json:"heroStats" yaml:"heroStats"`
}

// SectionIntro heads the problem and solution sections.
type SectionIntro struct {
	Badge      string `json:"badge" yaml:"badge"`
	Heading    string `json:"heading" yaml:"heading"`
	Subheading string `json:"subheading" yaml:"subheading"`
}

// SectionTitle heads the process and results sections.
type SectionTitle struct {
	Badge   string `json:"badge" yaml:"badge"`
	Heading string `json:"heading" yaml:"heading"`
}

type About struct {
	Badge      string      `json:"badge" yaml:"badge"`
	Heading    string      `json:"heading" yaml:"heading"`
	Body1      string      `json:"body1" yaml:"body1"`
	Body2      string      `json:"body2" yaml:"body2"`
	QuoteLabel string      `json:"quoteLabel" yaml:"quoteLabel"`
	Quote      string      `json:"quote" yaml:"quote"`
	Creds      []CredItem  `json:"creds" yaml:"creds"`
	AboutStats []AboutStat `json:"aboutStats" yaml:"aboutStats"`
}

type CTA struct {
	Heading    string   `json:"heading" yaml:"heading"`
	Subheading string   `json:"subheading" yaml:"subheading"`
	ButtonText string   `json:"buttonText" yaml:"buttonText"`
	ButtonURL  string   `json:"buttonUrl" yaml:"buttonUrl"`
	TrustItems []string `json:"trustItems" yaml:"trustItems"`
}

type HeroStat struct {
	TargetNumber int    `json:"targetNumber" yaml:"targetNumber"`
	Suffix       string `json:"suffix" yaml:"suffix"`
	Label        string `json:"label" yaml:"label"`
}

type ProblemCard struct {
	Icon      string `json:"icon" yaml:"icon"`
	Title     string `json:"title" yaml:"title"`
	Desc      string `json:"desc" yaml:"desc"`
	Stat      string `json:"stat" yaml:"stat"`
	StatLabel string `json:"statLabel" yaml:"statLabel"`
}

type SolutionCard struct {
	Icon     string   `json:"icon" yaml:"icon"`
	Title    string   `json:"title" yaml:"title"`
	Desc     string   `json:"desc" yaml:"desc"`
	Features []string `json:"features" yaml:"features"`
}

type ProcessStep struct {
	Number      string `json:"number" yaml:"number"`
	Title       string `json:"title" yaml:"title"`
	Desc        string `json:"desc" yaml:"desc"`
	Timeframe   string `json:"timeframe" yaml:"timeframe"`
	Deliverable string `json:"deliverable" yaml:"deliverable"`
}

type StatCard struct {
	Icon  string `json:"icon" yaml:"icon"`
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

type Testimonial struct {
	Name      string `json:"name" yaml:"name"`
	Role      string `json:"role" yaml:"role"`
	Location  string `json:"location" yaml:"location"`
	Text      string `json:"text" yaml:"text"`
	Stat      string `json:"stat" yaml:"stat"`
	StatLabel string `json:"statLabel" yaml:"statLabel"`
	Initials  string `json:"initials" yaml:"initials"`
}

type CredItem struct {
	Icon  string `json:"icon" yaml:"icon"`
	Label string `json:"label" yaml:"label"`
}

type AboutStat struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// RemoteHome is the home document as returned by a content source. Nil pointers and nil sections
// mean the field was absent or null.
type RemoteHome struct {
	Hero            *RemoteHero         `json:"hero"`
	ProblemSection  *RemoteSectionIntro `json:"problemSection"`
	Problems        []ProblemCard       `json:"problems"`
	SolutionSection *RemoteSectionIntro `json:"solutionSection"`
	Solutions       []SolutionCard      `json:"solutions"`
	ProcessSection  *RemoteSectionTitle `json:"processSection"`
	ProcessSteps    []ProcessStep       `json:"processSteps"`
	ResultsSection  *RemoteSectionTitle `json:"resultsSection"`
	Stats           []StatCard          `json:"stats"`
	Testimonials    []Testimonial       `json:"testimonials"`
	About           *RemoteAbout        `json:"about"`
	CTA             *RemoteCTA          `json:"cta"`
}

type RemoteHero struct {
	Badge            *string    `json:"badge"`
	Heading          *string    `json:"heading"`
	HeadingHighlight *string    `json:"headingHighlight"`
	Subheading       *string    `json:"subheading"`
	PrimaryCTA       *string    `json:"primaryCta"`
	SecondaryCTA     *string    `json:"secondaryCta"`
	HeroStats        []HeroStat `json:"heroStats"`
}

type RemoteSectionIntro struct {
	Badge      *string `json:"badge"`
	Heading    *string `json:"heading"`
	Subheading *string `json:"subheading"`
}

type RemoteSectionTitle struct {
	Badge   *string `json:"badge"`
	Heading *string `json:"heading"`
}

type RemoteAbout struct {
	Badge      *string     `json:"badge"`
	Heading    *string     `json:"heading"`
	Body1      *string     `json:"body1"`
	Body2      *string     `json:"body2"`
	QuoteLabel *string     `json:"quoteLabel"`
	Quote      *string     `json:"quote"`
	Creds      []CredItem  `json:"creds"`
	AboutStats []AboutStat `json:"aboutStats"`
}

type RemoteCTA struct {
	Heading    *string  `json:"heading"`
	Subheading *string  `json:"subheading"`
	ButtonText *string  `json:"buttonText"`
	ButtonURL  *string  `json:"buttonUrl"`
	TrustItems []string `json:"trustItems"`
}

// TeamMember is a person shown on the team page. ID identifies the member.
type TeamMember struct {
	ID           string       `json:"_id" yaml:"id"`
	Name         string       `json:"name" yaml:"name"`
	Role         string       `json:"role" yaml:"role"`
	Initials     string       `json:"initials" yaml:"initials"`
	Bio          string       `json:"bio" yaml:"bio"`
	Quote        string       `json:"quote" yaml:"quote"`
	Specialities []string     `json:"specialities" yaml:"specialities"`
	Stats        []MemberStat `json:"stats" yaml:"stats"`
	AccentColor  string       `json:"accentColor" yaml:"accentColor"`
	GradientFrom string       `json:"gradientFrom" yaml:"gradientFrom"`
	GradientTo   string       `json:"gradientTo" yaml:"gradientTo"`
	Order        int          `json:"order" yaml:"order"`
}

type MemberStat struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

const (
	defaultAccentColor  = "#34d399"
	defaultGradientFrom = "#34d399"
	defaultGradientTo   = "#059669"
	defaultMemberOrder  = 1
)

// WithSchemaDefaults fills the colour and order fields the authoring schema initialises.
// An order of zero or less counts as unset.
func (m TeamMember) WithSchemaDefaults() TeamMember {
	if strings.TrimSpace(m.AccentColor) == "" {
		m.AccentColor = defaultAccentColor
	}
	if strings.TrimSpace(m.GradientFrom) == "" {
		m.GradientFrom = defaultGradientFrom
	}
	if strings.TrimSpace(m.GradientTo) == "" {
		m.GradientTo = defaultGradientTo
	}
	if m.Order <= 0 {
		m.Order = defaultMemberOrder
	}
	return m
}

// Post categories.
const (
	CategoryStrategy   = "Strategy"
	CategoryInsights   = "Insights"
	CategoryCaseStudy  = "Case Study"
	CategoryCompliance = "Compliance"
)

// NormalizeCategory title-cases known categories ("case study" becomes "Case Study") and returns
// unknown values trimmed but otherwise untouched.
func NormalizeCategory(raw string) string {
	trimmed := strings.TrimSpace(raw)
	titled := cases.Title(language.English).String(strings.Join(strings.Fields(trimmed), " "))
	switch titled {
	case CategoryStrategy, CategoryInsights, CategoryCaseStudy, CategoryCompliance:
		return titled
	}
	return trimmed
}

// PostSummary is the listing shape of a blog post.
type PostSummary struct {
	ID         string `json:"_id" yaml:"id"`
	Title      string `json:"title" yaml:"title"`
	Slug       string `json:"slug" yaml:"slug"`
	Category   string `json:"category" yaml:"category"`
	Excerpt    string `json:"excerpt" yaml:"excerpt"`
	TimeToRead string `json:"timeToRead" yaml:"timeToRead"`
	Date       string `json:"date" yaml:"date"`
	Featured   bool   `json:"featured" yaml:"featured"`
}

// Post is a full blog post including its rich-text body.
type Post struct {
	PostSummary
	Content []Block `json:"content" yaml:"-"`
}

// HasContent reports whether the post body contains at least one renderable block with text.
func (p Post) HasContent() bool {
	for _, b := range p.Content {
		if b.Type != blockType {
			continue
		}
		for _, span := range b.Children {
			if strings.TrimSpace(span.Text) != "" {
				return true
			}
		}
	}
	return false
}

// Summary strips the body.
func (p Post) Summary() PostSummary { return p.PostSummary }

// Block styles.
const (
	StyleNormal     = "normal"
	StyleH2         = "h2"
	StyleBlockquote = "blockquote"
)

const (
	blockType = "block"
	spanType  = "span"
	linkType  = "link"
)

// Block is one portable-text block of a post body.
type Block struct {
	Key      string    `json:"_key"`
	Type     string    `json:"_type"`
	Style    string    `json:"style"`
	Children []Span    `json:"children"`
	MarkDefs []MarkDef `json:"markDefs"`
}

// Span is a run of text carrying decorator marks ("strong", "em", "code") or mark definition keys.
type Span struct {
	Key   string   `json:"_key"`
	Type  string   `json:"_type"`
	Text  string   `json:"text"`
	Marks []string `json:"marks"`
}

// MarkDef annotates spans that reference its Key. Only links are rendered.
type MarkDef struct {
	Key  string `json:"_key"`
	Type string `json:"_type"`
	Href string `json:"href"`
}

// NewBlock builds a single-span block of the given style.
func NewBlock(key, style, text string) Block {
	return Block{
		Key:      key,
		Type:     blockType,
		Style:    style,
		Children: []Span{{Key: key + "s", Type: spanType, Text: text, Marks: []string{}}},
		MarkDefs: []MarkDef{},
	}
}
