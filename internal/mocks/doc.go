// Package mocks provides function-field fakes of the service interfaces for
// handler tests. Each mock returns its default fields unless the matching
// ...Fn field is set:
//
//	cards := &mocks.MockCardService{
//	    CreateCardFn: func(ctx context.Context, q, a string, doc, note *int64) (int64, bool, error) {
//	        return 42, true, nil
//	    },
//	}
package mocks
