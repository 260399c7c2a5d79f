package store

import (
	"time"

	"vocalhire/interview/internal/models"
)

// SampleInterviews are the two completed interviews every fresh store starts with.
func SampleInterviews(now time.Time) []models.InterviewRecord {
	day := 24 * time.Hour
	second := now.Add(-2 * day)
	return []models.InterviewRecord{
		{
			ID:                "sample-1",
			Role:              "Software Engineer",
			Category:          "Technology",
			Duration:          30,
			Difficulty:        models.DifficultyMedium,
			Date:              now.Add(-day),
			Status:            models.StatusCompleted,
			Score:             models.IntPtr(85),
			SecurityScore:     models.IntPtr(92),
			CameraEnabled:     true,
			MicrophoneEnabled: true,
			QuestionsAsked: []string{
				"Tell me about yourself and your background.",
				"Why are you interested in this position?",
				"Explain the difference between SQL and NoSQL databases.",
				"How do you approach debugging a complex issue?",
				"How do you approach AI/ML integration in your development projects?",
			},
			DynamicQuestions: []string{
				"How do you approach AI/ML integration in your development projects?",
			},
			SpeechText:       "I am a passionate software engineer with 3 years of experience in full-stack development. I have worked extensively with React, Node.js, and various databases. I am particularly interested in this position because it aligns with my career goals and offers opportunities to work on challenging projects.",
			Misconduct:       []string{},
			PlagiarismAlerts: []models.PlagiarismAlert{},
			ResponseQuality:  []float64{78, 82, 85, 88, 90},
			ProctoringSummary: &models.ProctoringSummary{
				TotalAlerts:           0,
				CriticalAlerts:        0,
				SecurityScore:         92,
				AdaptiveQuestionsUsed: 1,
			},
		},
		{
			ID:                "sample-2",
			Role:              "Marketing Manager",
			Category:          "Marketing",
			Duration:          25,
			Difficulty:        models.DifficultyHard,
			Date:              second,
			Status:            models.StatusCompleted,
			Score:             models.IntPtr(78),
			SecurityScore:     models.IntPtr(76),
			CameraEnabled:     true,
			MicrophoneEnabled: true,
			QuestionsAsked: []string{
				"Tell me about yourself and your background.",
				"How do you measure the success of a marketing campaign?",
				"Describe your experience with digital marketing channels.",
				"What's your approach to brand positioning?",
				"How has your marketing strategy adapted to iOS privacy changes?",
			},
			DynamicQuestions: []string{
				"How has your marketing strategy adapted to iOS privacy changes?",
			},
			SpeechText: "I have over 5 years of experience in digital marketing, specializing in content marketing and social media strategy. I have successfully managed campaigns that increased brand awareness by 40% and generated significant ROI for my previous companies.",
			Misconduct: []string{"Brief look away from screen at 4:23"},
			PlagiarismAlerts: []models.PlagiarismAlert{
				{
					ID:        "1",
					Type:      models.AlertTabSwitch,
					Message:   "Brief look away from screen detected",
					Timestamp: second.Add(263 * time.Second),
					Severity:  models.SeverityMedium,
				},
			},
			ResponseQuality: []float64{72, 75, 78, 80, 82},
			ProctoringSummary: &models.ProctoringSummary{
				TotalAlerts:           1,
				CriticalAlerts:        0,
				SecurityScore:         76,
				AdaptiveQuestionsUsed: 1,
			},
		},
	}
}
