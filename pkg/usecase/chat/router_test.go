package chat_test

import (
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/kindredapp/kindred/pkg/usecase/chat"
)

func TestClassifyMessage(t *testing.T) {
	tests := []struct {
		name string
		text string
		tier chat.Tier
	}{
		{
			name: "causal question routes to pro",
			text: "why does mom's blood pressure spike after her medication",
			tier: chat.TierPro,
		},
		{
			name: "pharmacy lookup routes to lite",
			text: "what is mom's pharmacy phone number",
			tier: chat.TierLite,
		},
		{
			name: "general conversation routes to standard",
			text: "how was her day",
			tier: chat.TierStandard,
		},
		{
			name: "pro wins over lite when both match",
			text: "why is mom's pharmacy closed",
			tier: chat.TierPro,
		},
		{
			name: "cross-signal phrasing routes to pro",
			text: "is her blood pressure related to the weight she gained",
			tier: chat.TierPro,
		},
		{
			name: "correlation marker routes to pro",
			text: "do these readings correlate with her sleep",
			tier: chat.TierPro,
		},
		{
			name: "interaction marker routes to pro",
			text: "is there an interaction between her pills",
			tier: chat.TierPro,
		},
		{
			name: "side effect marker routes to pro",
			text: "can this be a side effect of metoprolol",
			tier: chat.TierPro,
		},
		{
			name: "analyze marker routes to pro",
			text: "analyze her readings from last week",
			tier: chat.TierPro,
		},
		{
			name: "explain trend routes to pro",
			text: "explain the trend in her weight",
			tier: chat.TierPro,
		},
		{
			name: "appointment lookup routes to lite",
			text: "when is her next appointment",
			tier: chat.TierLite,
		},
		{
			name: "doctor contact routes to lite",
			text: "what's the doctor's phone number",
			tier: chat.TierLite,
		},
		{
			name: "allergy lookup routes to lite",
			text: "is she allergic to penicillin",
			tier: chat.TierLite,
		},
		{
			name: "insurance lookup routes to lite",
			text: "which insurance card should I bring",
			tier: chat.TierLite,
		},
		{
			name: "medication list routes to lite",
			text: "show me her medication list",
			tier: chat.TierLite,
		},
		{
			name: "empty message defaults to standard",
			text: "",
			tier: chat.TierStandard,
		},
		{
			name: "greeting defaults to standard",
			text: "good morning!",
			tier: chat.TierStandard,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			route := chat.ClassifyMessage(tt.text)
			gt.Equal(t, route.Tier, tt.tier)
			gt.V(t, route.Model).NotEqual("")
		})
	}
}

func TestClassifyMessageIsDeterministic(t *testing.T) {
	texts := []string{
		"why does mom's blood pressure spike after her medication",
		"what is mom's pharmacy phone number",
		"how was her day",
		"",
	}

	for _, text := range texts {
		first := chat.ClassifyMessage(text)
		second := chat.ClassifyMessage(text)
		gt.Equal(t, first, second)
	}
}
