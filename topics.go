package sympa

import "sort"

// Topics known to a default Sympa installation. "other" is built in.
var topics = map[string]bool{
	"art":           true,
	"business":      true,
	"computers":     true,
	"education":     true,
	"entertainment": true,
	"government":    true,
	"health":        true,
	"news":          true,
	"recreation":    true,
	"science":       true,
	"social":        true,
	"society":       true,
	"other":         true,
}

// Subtopics, keyed by "topic/subtopic".
var subtopics = map[string]bool{
	"art/finearts":         true,
	"art/history":          true,
	"art/literature":       true,
	"art/photography":      true,
	"business/b2b":         true,
	"business/finance":     true,
	"business/jobs":        true,
	"business/shopping":    true,
	"computers/hardware":   true,
	"computers/internet":   true,
	"computers/software":   true,
	"education/college":    true,
	"education/k12":        true,
	"entertainment/humor":  true,
	"entertainment/movies": true,
	"entertainment/music":  true,
	"government/elections": true,
	"government/law":       true,
	"government/military":  true,
	"government/taxes":     true,
	"health/diseases":      true,
	"health/drugs":         true,
	"health/fitness":       true,
	"health/medicine":      true,
	"news/multimedia":      true,
	"news/newspapers":      true,
	"news/radio":           true,
	"news/tv":              true,
	"recreation/autos":     true,
	"recreation/outdoors":  true,
	"recreation/sports":    true,
	"recreation/travel":    true,
	"science/animals":      true,
	"science/astronomy":    true,
	"science/engineering":  true,
	"social/people":        true,
	"social/religion":      true,
	"society/environment":  true,
	"society/people":       true,
	"society/religion":     true,
}

// List creation templates shipped with Sympa.
var templates = map[string]bool{
	"confidential":          true,
	"discussion_list":       true,
	"hotline":               true,
	"html-news-letter":      true,
	"intranet_list":         true,
	"news-letter":           true,
	"private_working_group": true,
	"public_web_forum":      true,
	"web_forum":             true,
}

// Topics returns the known topics, sorted.
func Topics() []string {
	return sortedKeys(topics)
}

// Subtopics returns the known "topic/subtopic" pairs, sorted.
func Subtopics() []string {
	return sortedKeys(subtopics)
}

// Templates returns the known list creation templates, sorted.
func Templates() []string {
	return sortedKeys(templates)
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func validateRole(role Role) error {
	if !role.Valid() {
		return &ArgumentError{Argument: "role", Value: string(role), Reason: "must be subscriber, editor or owner"}
	}
	return nil
}

func validateTopic(topic, subtopic string) error {
	if !topics[topic] {
		return &ArgumentError{Argument: "topic", Value: topic, Reason: "unknown topic"}
	}

	if subtopic != "" && !subtopics[topic+"/"+subtopic] {
		return &ArgumentError{Argument: "subtopic", Value: topic + "/" + subtopic, Reason: "unknown subtopic"}
	}

	return nil
}

func validateCreateList(req *CreateListRequest) error {
	if req == nil {
		return &ArgumentError{Argument: "request", Reason: "must not be nil"}
	}

	if req.Name == "" {
		return &ArgumentError{Argument: "list name", Value: req.Name, Reason: "must not be empty"}
	}

	if !topics[req.Topic] && !subtopics[req.Topic] {
		return &ArgumentError{Argument: "topic", Value: req.Topic, Reason: "unknown topic or subtopic"}
	}

	if !req.AllowCustomTemplate && !templates[req.Template] {
		return &ArgumentError{Argument: "template", Value: req.Template, Reason: "unknown template"}
	}

	return nil
}
