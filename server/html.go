package server

// previewPage draws the streamed snapshots on a canvas. The trail effect is
// reproduced client-side with a low-alpha background fill per frame, the same
// technique the raster backend uses.
const previewPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>neuroglow preview</title>
  <style>
    body, html { margin: 0; padding: 0; height: 100%; overflow: hidden; background: #000; }
    #bg { display: block; width: 100vw; height: 100vh; }
    #hud {
      position: fixed; top: 12px; left: 12px; color: #889;
      font: 12px monospace; user-select: none; cursor: pointer;
    }
  </style>
</head>
<body>
  <canvas id="bg"></canvas>
  <div id="hud">theme: dark (click to toggle)</div>
  <script>
    const canvas = document.getElementById('bg');
    const ctx = canvas.getContext('2d');
    const hud = document.getElementById('hud');

    let topo = null;
    let frame = null;
    let theme = 'dark';
    let cleared = false;

    const ws = new WebSocket('ws://' + location.host + '/ws');
    ws.onmessage = ev => {
      const msg = JSON.parse(ev.data);
      if (msg.type === 'topology') {
        topo = msg.data;
        canvas.width = topo.width;
        canvas.height = topo.height;
        cleared = false;
      } else if (msg.type === 'frame') {
        frame = msg.data;
      }
    };

    hud.onclick = () => {
      theme = theme === 'dark' ? 'light' : 'dark';
      hud.textContent = 'theme: ' + theme + ' (click to toggle)';
      ws.send(JSON.stringify({type: 'theme', data: theme}));
    };

    document.addEventListener('visibilitychange', () => {
      ws.send(JSON.stringify({type: 'visible', data: !document.hidden}));
    });

    function hexToRgba(hex, a) {
      const n = parseInt(hex.slice(1), 16);
      return 'rgba(' + (n >> 16 & 255) + ',' + (n >> 8 & 255) + ',' + (n & 255) + ',' + a + ')';
    }

    function stroke(c, alpha) {
      ctx.beginPath();
      ctx.moveTo(c.points[0].x, c.points[0].y);
      for (let i = 1; i < c.points.length; i++) ctx.lineTo(c.points[i].x, c.points[i].y);
      ctx.lineWidth = c.width;
      ctx.strokeStyle = hexToRgba(topo.edge_color, alpha);
      ctx.stroke();
    }

    function draw() {
      requestAnimationFrame(draw);
      if (!topo) return;

      if (!cleared) {
        ctx.fillStyle = topo.background;
        ctx.fillRect(0, 0, canvas.width, canvas.height);
        cleared = true;
      } else {
        ctx.fillStyle = hexToRgba(topo.background, 0.16);
        ctx.fillRect(0, 0, canvas.width, canvas.height);
      }

      for (const b of topo.branches) stroke(b, 0.3);
      for (const e of topo.edges) stroke(e, 0.45);

      const pulses = {};
      if (frame && frame.pulses) for (const p of frame.pulses) pulses[p.id] = p.pulse;

      for (const n of topo.nodes) {
        const pulse = pulses[n.id] || 0;
        if (pulse > 0) {
          const g = ctx.createRadialGradient(n.x, n.y, 0, n.x, n.y, n.radius * (2.5 + 4 * pulse));
          g.addColorStop(0, hexToRgba(topo.glow_color, 0.25 + 0.45 * pulse));
          g.addColorStop(1, hexToRgba(topo.glow_color, 0));
          ctx.fillStyle = g;
          ctx.beginPath();
          ctx.arc(n.x, n.y, n.radius * (2.5 + 4 * pulse), 0, Math.PI * 2);
          ctx.fill();
        }
        ctx.fillStyle = hexToRgba(topo.node_color, 0.75 + 0.25 * pulse);
        ctx.beginPath();
        ctx.arc(n.x, n.y, n.radius, 0, Math.PI * 2);
        ctx.fill();
      }

      if (frame && frame.particles) {
        for (const p of frame.particles) {
          ctx.fillStyle = hexToRgba(topo.particle_color, 0.9);
          ctx.beginPath();
          ctx.arc(p.x, p.y, 1.8, 0, Math.PI * 2);
          ctx.fill();
        }
      }
    }
    draw();
  </script>
</body>
</html>`
