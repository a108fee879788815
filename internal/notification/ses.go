package notification

import (
	"context"

	"github.com/aws/aws-sdk-go/aws"
	awssession "github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/ses"
	"github.com/aws/aws-sdk-go/service/ses/sesiface"
)

// SESDispatcher sends through Amazon SES using the default AWS credential chain.
type SESDispatcher struct {
	client sesiface.SESAPI
	source string
}

func NewSESDispatcher(region, source string) (*SESDispatcher, error) {
	sess, err := awssession.NewSession(&aws.Config{Region: aws.String(region)})
	if err != nil {
		return nil, err
	}
	return &SESDispatcher{client: ses.New(sess), source: source}, nil
}

func (d *SESDispatcher) Send(ctx context.Context, msg Message) Receipt {
	out, err := d.client.SendEmailWithContext(ctx, &ses.SendEmailInput{
		Source: aws.String(d.source),
		Destination: &ses.Destination{
			ToAddresses: []*string{aws.String(msg.To)},
		},
		Message: &ses.Message{
			Subject: &ses.Content{
				Charset: aws.String("UTF-8"),
				Data:    aws.String(msg.Subject),
			},
			Body: &ses.Body{
				Html: &ses.Content{
					Charset: aws.String("UTF-8"),
					Data:    aws.String(msg.HTML),
				},
			},
		},
	})
	if err != nil {
		return failed(err)
	}
	return Receipt{Success: true, MessageID: aws.StringValue(out.MessageId)}
}
