package feed

import "fmt"

func youtubeEntry(videoID, title, published string) string {
	return fmt.Sprintf(`
  <entry>
    <id>yt:video:%[1]s</id>
    <yt:videoId>%[1]s</yt:videoId>
    <yt:channelId>UCabc123</yt:channelId>
    <title>%[2]s</title>
    <link rel="alternate" href="https://www.youtube.com/watch?v=%[1]s"/>
    <author>
      <name>Test Channel</name>
      <uri>https://www.youtube.com/channel/UCabc123</uri>
    </author>
    <published>%[3]s</published>
    <updated>%[3]s</updated>
  </entry>`, videoID, title, published)
}

func youtubeFeed(entries ...string) string {
	body := ""
	for _, e := range entries {
		body += e
	}
	return `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns:yt="http://www.youtube.com/xml/schemas/2015" xmlns:media="http://search.yahoo.com/mrss/" xmlns="http://www.w3.org/2005/Atom">
  <link rel="self" href="http://www.youtube.com/feeds/videos.xml?channel_id=UCabc123"/>
  <id>yt:channel:UCabc123</id>
  <yt:channelId>UCabc123</yt:channelId>
  <title>Test Channel</title>
  <link rel="alternate" href="https://www.youtube.com/channel/UCabc123"/>
  <published>2015-01-01T00:00:00+00:00</published>` + body + `
</feed>`
}
