// Package gigachat implements a client for the GigaChat chat-completion
// API.
//
// # Overview
//
// The client covers completions (single-shot and streamed), model listing
// and lookup, and thread runs. Authentication is transparent: the client
// obtains an access token on first use through the configured grant flow,
// attaches it as a bearer credential, and when the server rejects it with
// 401 refreshes the token and retries the call exactly once. A persistent
// credential problem therefore surfaces as an *AuthenticationError after
// the second attempt, never as a silent loop.
//
// # Basic usage
//
//	client, err := gigachat.NewClient(gigachat.Config{
//	    BaseURL:     "https://gigachat.devices.sberbank.ru/api/v1",
//	    AuthURL:     "https://ngw.devices.sberbank.ru:9443/api/v2/oauth",
//	    Credentials: os.Getenv("GIGACHAT_CREDENTIALS"),
//	    Scope:       "GIGACHAT_API_PERS",
//	    Model:       "GigaChat",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	completion, err := client.Chat(ctx, &gigachat.Chat{
//	    Messages: []gigachat.Message{{Role: gigachat.RoleUser, Content: "Hello!"}},
//	})
//
// # Streaming
//
// ChatStream returns a pull-based ChunkStream; each Next call suspends
// until the next chunk arrives. Stopping early and closing the stream is a
// supported termination path:
//
//	stream, err := client.ChatStream(ctx, chat)
//	if err != nil {
//	    return err
//	}
//	defer stream.Close()
//	for stream.Next() {
//	    fmt.Print(stream.Current().Choices[0].Delta.Content)
//	}
//	if err := stream.Err(); err != nil {
//	    return err
//	}
//
// For select-based consumers, ChunkStream.Chunks adapts the same stream to
// a channel without changing its retry or resource guarantees.
//
// # Errors
//
// Failures are typed and matched with errors.As: *AuthenticationError
// (credential rejected), *ResponseError (other non-success status),
// *TransportError (streaming content-type mismatch, raised before the
// first chunk), *ChunkDecodeError (malformed data line mid-stream) and
// *auth.BackendError (the token endpoint itself failed).
package gigachat
