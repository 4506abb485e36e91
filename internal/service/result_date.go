package service

import (
	"edusync_backend/internal/util"
	"time"

	"golang.org/x/text/language"
)

// 支持的展示语言，第一项为匹配失败时的默认值
var dateLocales = []language.Tag{
	language.AmericanEnglish,
	language.BritishEnglish,
	language.German,
	language.French,
	language.SimplifiedChinese,
	language.Japanese,
}

// 与 dateLocales 一一对应：年、月(短)、日、时、分
var dateLayouts = []string{
	"Jan 2, 2006, 03:04 PM",
	"2 Jan 2006, 15:04",
	"02.01.2006, 15:04",
	"02/01/2006 15:04",
	"2006年1月2日 15:04",
	"2006/01/02 15:04",
}

var dateMatcher = language.NewMatcher(dateLocales)

func dateLayoutFor(tag language.Tag) string {
	_, idx, _ := dateMatcher.Match(tag)
	if idx < 0 || idx >= len(dateLayouts) {
		return dateLayouts[0]
	}
	return dateLayouts[idx]
}

// formatAttemptDate 时间为空或超出可表示范围时返回占位文案
func formatAttemptDate(t time.Time, tag language.Tag, loc *time.Location) string {
	if t.IsZero() {
		return util.InvalidDateLabel
	}
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	if y := local.Year(); y < 1 || y > 9999 {
		return util.InvalidDateLabel
	}
	return local.Format(dateLayoutFor(tag))
}

// ParseLocale 解析 Accept-Language，无法解析时返回 language.Und
func ParseLocale(header string) language.Tag {
	if header == "" {
		return language.Und
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return language.Und
	}
	return tags[0]
}
