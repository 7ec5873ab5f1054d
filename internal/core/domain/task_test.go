package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchesKeyword(t *testing.T) {
	info := TaskInfo{
		Name:             "train_yolo_v8_classification",
		ShortDescription: "Train YOLOv8 classification models.",
		Description:      "This algorithm proposes train on YOLOv8 image classification models.",
		Keywords:         []string{"YOLO", "classification", "ultralytics", "imagenet"},
	}

	tests := []struct {
		name string
		term string
		want bool
	}{
		{name: "exact keyword", term: "imagenet", want: true},
		{name: "case insensitive", term: "ULTRALYTICS", want: true},
		{name: "substring of name", term: "yolo_v8", want: true},
		{name: "word in description", term: "algorithm", want: true},
		{name: "surrounding whitespace", term: "  yolo  ", want: true},
		{name: "empty matches all", term: "", want: true},
		{name: "no match", term: "segmentation", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, info.MatchesKeyword(tt.term))
		})
	}
}
