package bridge

import "testing"

func TestNormalizeBase(t *testing.T) {
	tests := []struct {
		name  string
		topic string
		want  string
	}{
		{"plain", "node", "node/"},
		{"already terminated", "node/", "node/"},
		{"repeated slashes collapse to one", "node///", "node/"},
		{"nested base", "site/building-a/node", "site/building-a/node/"},
		{"empty", "", "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeBase(tt.topic); got != tt.want {
				t.Errorf("NormalizeBase(%q) = %q, want %q", tt.topic, got, tt.want)
			}
		})
	}
}

func TestSubscriptionTopic(t *testing.T) {
	if got := SubscriptionTopic("node/"); got != "node/+/+/+/+/+" {
		t.Errorf("SubscriptionTopic() = %q, want %q", got, "node/+/+/+/+/+")
	}
}

func TestSuffixTopicMapping(t *testing.T) {
	const base = "node/"

	tests := []struct {
		name   string
		suffix string
		topic  string
	}{
		{"full device suffix", "1/thermometer/0:0/temperature", "node/1/thermometer/0:0/temperature"},
		{"command suffix", "1/relay/0:0/state/set", "node/1/relay/0:0/state/set"},
		{"short suffix", "0/info", "node/0/info"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SuffixToTopic(base, tt.suffix); got != tt.topic {
				t.Errorf("SuffixToTopic() = %q, want %q", got, tt.topic)
			}

			suffix, ok := TopicToSuffix(base, tt.topic)
			if !ok {
				t.Fatalf("TopicToSuffix(%q) not under base", tt.topic)
			}
			if suffix != tt.suffix {
				t.Errorf("TopicToSuffix() = %q, want %q", suffix, tt.suffix)
			}
		})
	}
}

func TestTopicToSuffixRejects(t *testing.T) {
	tests := []struct {
		name  string
		base  string
		topic string
	}{
		{"different base", "node/", "other/1/relay/0:0/state/set"},
		{"base itself", "node/", "node/"},
		{"base without separator", "node/", "node"},
		{"prefix of base", "node/", "no"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if suffix, ok := TopicToSuffix(tt.base, tt.topic); ok {
				t.Errorf("TopicToSuffix(%q) = %q, want no match", tt.topic, suffix)
			}
		})
	}
}
