package cms

import "slices"

// MergeHome combines a possibly partial remote home document with the complete fallback.
//
// Scalars take the remote value when it is present. Lists are replaced atomically: a non-empty
// remote list wins in full, otherwise the fallback list is used. Sections merge field by field.
// The result never shares slices with either input.
func MergeHome(remote *RemoteHome, fallback HomeContent) HomeContent {
	if remote == nil {
		remote = &RemoteHome{}
	}
	return HomeContent{
		Hero:            mergeHero(remote.Hero, fallback.Hero),
		ProblemSection:  mergeSectionIntro(remote.ProblemSection, fallback.ProblemSection),
		Problems:        pickList(remote.Problems, fallback.Problems),
		SolutionSection: mergeSectionIntro(remote.SolutionSection, fallback.SolutionSection),
		Solutions:       cloneSolutions(pickList(remote.Solutions, fallback.Solutions)),
		ProcessSection:  mergeSectionTitle(remote.ProcessSection, fallback.ProcessSection),
		ProcessSteps:    pickList(remote.ProcessSteps, fallback.ProcessSteps),
		ResultsSection:  mergeSectionTitle(remote.ResultsSection, fallback.ResultsSection),
		Stats:           pickList(remote.Stats, fallback.Stats),
		Testimonials:    pickList(remote.Testimonials, fallback.Testimonials),
		About:           mergeAbout(remote.About, fallback.About),
		CTA:             mergeCTA(remote.CTA, fallback.CTA),
	}
}

func mergeHero(remote *RemoteHero, fallback Hero) Hero {
	if remote == nil {
		remote = &RemoteHero{}
	}
	return Hero{
		Badge:            pickString(remote.Badge, fallback.Badge),
		Heading:          pickString(remote.Heading, fallback.Heading),
		HeadingHighlight: pickString(remote.HeadingHighlight, fallback.HeadingHighlight),
		Subheading:       pickString(remote.Subheading, fallback.Subheading),
		PrimaryCTA:       pickString(remote.PrimaryCTA, fallback.PrimaryCTA),
		SecondaryCTA:     pickString(remote.SecondaryCTA, fallback.SecondaryCTA),
		HeroStats:        pickList(remote.HeroStats, fallback.HeroStats),
	}
}

func mergeSectionIntro(remote *RemoteSectionIntro, fallback SectionIntro) SectionIntro {
	if remote == nil {
		return fallback
	}
	return SectionIntro{
		Badge:      pickString(remote.Badge, fallback.Badge),
		Heading:    pickString(remote.Heading, fallback.Heading),
		Subheading: pickString(remote.Subheading, fallback.Subheading),
	}
}

func mergeSectionTitle(remote *RemoteSectionTitle, fallback SectionTitle) SectionTitle {
	if remote == nil {
		return fallback
	}
	return SectionTitle{
		Badge:   pickString(remote.Badge, fallback.Badge),
		Heading: pickString(remote.Heading, fallback.Heading),
	}
}

func mergeAbout(remote *RemoteAbout, fallback About) About {
	if remote == nil {
		remote = &RemoteAbout{}
	}
	return About{
		Badge:      pickString(remote.Badge, fallback.Badge),
		Heading:    pickString(remote.Heading, fallback.Heading),
		Body1:      pickString(remote.Body1, fallback.Body1),
		Body2:      pickString(remote.Body2, fallback.Body2),
		QuoteLabel: pickString(remote.QuoteLabel, fallback.QuoteLabel),
		Quote:      pickString(remote.Quote, fallback.Quote),
		Creds:      pickList(remote.Creds, fallback.Creds),
		AboutStats: pickList(remote.AboutStats, fallback.AboutStats),
	}
}

func mergeCTA(remote *RemoteCTA, fallback CTA) CTA {
	if remote == nil {
		remote = &RemoteCTA{}
	}
	return CTA{
		Heading:    pickString(remote.Heading, fallback.Heading),
		Subheading: pickString(remote.Subheading, fallback.Subheading),
		ButtonText: pickString(remote.ButtonText, fallback.ButtonText),
		ButtonURL:  pickString(remote.ButtonURL, fallback.ButtonURL),
		TrustItems: pickList(remote.TrustItems, fallback.TrustItems),
	}
}

func pickString(remote *string, fallback string) string {
	if remote != nil {
		return *remote
	}
	return fallback
}

func pickInt(remote *int, fallback int) int {
	if remote != nil {
		return *remote
	}
	return fallback
}

// pickList replaces the whole list: remote when non-empty, fallback otherwise. Items are never
// combined across the two sources.
func pickList[T any](remote, fallback []T) []T {
	if len(remote) > 0 {
		return slices.Clone(remote)
	}
	return slices.Clone(fallback)
}

func cloneSolutions(in []SolutionCard) []SolutionCard {
	for i := range in {
		in[i].Features = slices.Clone(in[i].Features)
	}
	return in
}

func cloneMembers(in []TeamMember) []TeamMember {
	out := slices.Clone(in)
	for i := range out {
		out[i].Specialities = slices.Clone(out[i].Specialities)
		out[i].Stats = slices.Clone(out[i].Stats)
	}
	return out
}

func clonePost(p Post) Post {
	p.Content = slices.Clone(p.Content)
	for i := range p.Content {
		p.Content[i].Children = slices.Clone(p.Content[i].Children)
		p.Content[i].MarkDefs = slices.Clone(p.Content[i].MarkDefs)
	}
	return p
}
