package app

import (
	"notifykit/internal/config"
	"notifykit/internal/template"
)

func emailOptions(brand config.BrandConfig) template.HTMLEmailOptions {
	return template.HTMLEmailOptions{
		GovukBanner: brand.GovukBanner,
		BrandLogo:   brand.Logo,
		BrandText:   brand.Text,
		BrandColour: brand.Colour,
		BrandBanner: brand.Banner,
		BrandName:   brand.Name,
	}
}

func letterOptions(letter config.LetterConfig) template.LetterOptions {
	return template.LetterOptions{
		ContactBlock: letter.ContactBlock,
		AdminBaseURL: letter.AdminBaseURL,
		LogoFileName: letter.LogoFileName,
	}
}
