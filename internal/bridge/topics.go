package bridge

import "strings"

// subscriptionSuffix is the five-level wildcard every gateway subscribes
// with; node command topics are always five segments deep.
const subscriptionSuffix = "+/+/+/+/+"

// NormalizeBase normalizes a configured base topic to end with exactly
// one slash, so "node", "node/" and "node//" all map to "node/".
func NormalizeBase(topic string) string {
	return strings.TrimRight(topic, "/") + "/"
}

// SubscriptionTopic returns the wildcard filter for the bus-to-serial
// direction: "<base>+/+/+/+/+".
func SubscriptionTopic(base string) string {
	return base + subscriptionSuffix
}

// SuffixToTopic maps a frame's topic suffix to its full bus topic.
//
// The suffix is taken verbatim from the frame, whatever its segment count;
// the mapping is a lossless bijection on everything after the base.
func SuffixToTopic(base, suffix string) string {
	return base + suffix
}

// TopicToSuffix strips the base prefix from a bus topic.
//
// The second return value is false when the topic is not under the base;
// such messages are ignored, not errors.
func TopicToSuffix(base, topic string) (string, bool) {
	suffix, ok := strings.CutPrefix(topic, base)
	if !ok || suffix == "" {
		return "", false
	}
	return suffix, true
}
