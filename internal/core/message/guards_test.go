package message

import "testing"

func TestCanPrune(t *testing.T) {
	tests := []struct {
		name    string
		ctx     PruneContext
		allowed bool
	}{
		{
			name:    "empty leaf can be pruned",
			ctx:     PruneContext{MessageID: 1},
			allowed: true,
		},
		{
			name:    "filled message cannot be pruned",
			ctx:     PruneContext{MessageID: 1, HasAudio: true},
			allowed: false,
		},
		{
			name:    "message with children cannot be pruned",
			ctx:     PruneContext{MessageID: 1, HasChildren: true},
			allowed: false,
		},
		{
			name:    "filled message with children cannot be pruned",
			ctx:     PruneContext{MessageID: 1, HasAudio: true, HasChildren: true},
			allowed: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanPrune(tt.ctx)
			if result.Allowed != tt.allowed {
				t.Errorf("Allowed = %v, want %v (reason: %s)", result.Allowed, tt.allowed, result.Reason)
			}
			if !tt.allowed && result.Reason == "" {
				t.Error("denied guard should carry a reason")
			}
		})
	}
}

func TestCanSprout(t *testing.T) {
	result := CanSprout(SproutContext{MessageID: 1, HasAudio: true})
	if !result.Allowed {
		t.Errorf("filled message should sprout, got denied: %s", result.Reason)
	}

	result = CanSprout(SproutContext{MessageID: 1, HasAudio: false})
	if result.Allowed {
		t.Error("empty message should not sprout")
	}
	if result.Error() == nil {
		t.Error("denied guard should convert to an error")
	}
}
