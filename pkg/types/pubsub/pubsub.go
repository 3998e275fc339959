package pubsub

const TopicPrices = "prices"

// Handler consumes one published message.
type Handler func(data []byte) error

type Publisher interface {
	Publish(data []byte) error
}

type Subscriber interface {
	Subscribe() error
}

type PubSub interface {
	Publisher
	Subscriber
}
