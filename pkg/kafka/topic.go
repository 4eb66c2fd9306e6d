package kafka

import "fmt"

// TopicPrefix namespaces every storefront topic.
const TopicPrefix = "sportsstore"

// Topic builds a topic name of the form sportsstore.<domain>.<action>.
func Topic(domain, action string) string {
	return fmt.Sprintf("%s.%s.%s", TopicPrefix, domain, action)
}
