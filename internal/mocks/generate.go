package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Provider --dir ../domain/upstream --output domain/upstream --outpkg upstreammock --filename provider_mock.go
