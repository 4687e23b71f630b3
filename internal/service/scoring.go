package service

import (
	"unicode/utf8"

	"EventHub/internal/model"
)

// 计分规则
const (
	PointsQuickOption       = 10
	PointsRating            = 10
	PointsShortText         = 15 // < 50 字符
	PointsMediumText        = 25 // < 100 字符
	PointsLongText          = 40
	PointsQualityBonus      = 20
	PointsPositiveSentiment = 10

	HighQualityThreshold = 0.7
)

// ScoreInput 计算一次回答积分所需的信息
type ScoreInput struct {
	Text            string
	IsQuickOption   bool
	IsRating        bool
	Quality         float64
	Sentiment       model.Sentiment
	IsFirstResponse bool
}

// Scorer 回答计分器，FirstResponseBonus 可配置
type Scorer struct {
	FirstResponseBonus int
}

// Points 结果始终 >= 0
func (s Scorer) Points(in ScoreInput) int {
	var points int
	switch {
	case in.IsQuickOption:
		points += PointsQuickOption
	case in.IsRating:
		points += PointsRating
	default:
		switch n := utf8.RuneCountInString(in.Text); {
		case n < 50:
			points += PointsShortText
		case n < 100:
			points += PointsMediumText
		default:
			points += PointsLongText
		}
	}

	if in.Quality >= HighQualityThreshold {
		points += PointsQualityBonus
	}
	if in.Sentiment == model.SentimentPositive {
		points += PointsPositiveSentiment
	}
	if in.IsFirstResponse && s.FirstResponseBonus > 0 {
		points += s.FirstResponseBonus
	}
	return points
}
